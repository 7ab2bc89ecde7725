package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes characters and removes combining marks (é → e, ñ → n).
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make converts an arbitrary display name into its canonical URL slug.
//
// The transformation is deterministic: diacritics are folded to their ASCII
// base characters, letters are lowercased, and every run of non-alphanumeric
// characters collapses into a single "-" separator. Leading and trailing
// separators are dropped.
//
// The same function must be used when generating links and when parsing
// incoming path segments, otherwise URL reconciliation would redirect forever
// between two spellings of the same name.
func Make(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the raw
		// input and let the filter below drop the offending bytes.
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))

	pendingSep := false
	for _, r := range folded {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	return b.String()
}

// IsCanonical reports whether s is already in canonical slug form,
// i.e. Make(s) == s and s is non-empty.
func IsCanonical(s string) bool {
	return s != "" && Make(s) == s
}
