// Package slug generates URL-safe identifiers from display names with Unicode normalization.
//
// The package exists for one purpose: company display names must map to path
// segments ("Acme Corp" → "acme-corp") through a single deterministic
// function shared by link generation and path parsing. Diacritics are folded
// to ASCII (é → e), letters are lowercased, and runs of punctuation or
// whitespace collapse into a single "-".
//
// # Usage
//
//	slug.Make("Acme Corp")          // "acme-corp"
//	slug.Make("Café & Restaurant")  // "cafe-restaurant"
//	slug.Make("  Weird -- Name  ")  // "weird-name"
//
// IsCanonical reports whether a string is already a valid slug, which is
// useful for validating stored values without re-deriving them:
//
//	slug.IsCanonical("acme-corp") // true
//	slug.IsCanonical("Acme Corp") // false
package slug
