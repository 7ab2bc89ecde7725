// Package middleware provides the HTTP middleware stack that turns a plain
// router into a multi-tenant authorization gateway: session loading,
// principal resolution, company context reconciliation, and tier-based
// route policy.
//
// The middleware package is designed to work with the handler.Context
// interface, providing type-safe, composable middleware that is chained
// in a fixed order:
//
//	session → auth → tenant → policy
//
// Each stage only consumes what earlier stages installed, so the order is
// a hard requirement, not a convention.
//
// # Architecture
//
// All middleware functions follow a consistent pattern:
//   - Generic functions that accept a handler.Context type parameter
//   - Configuration structs for customization
//   - Default constructors for common use cases
//   - WithConfig constructors for advanced configuration
//   - Context helpers for retrieving stored values
//
// # Session Middleware
//
// Session loads the cookie-backed session at the start of the request and
// persists any modifications at the end. It never fails a request: broken
// or missing cookies degrade to a fresh anonymous session.
//
//	app.Use(middleware.Session[*YourContext](transport))
//
//	func handler(ctx *YourContext) handler.Response {
//		sess := middleware.MustGetSession[tenant.SessionData](ctx)
//		// ...
//	}
//
// # Auth Middleware
//
// Auth resolves the session's user ID into an auth.Principal carrying the
// caller's roles. Resolution happens once per request; any resolver
// failure degrades the caller to anonymous rather than erroring.
//
//	app.Use(middleware.Auth[*YourContext, tenant.SessionData](resolver))
//
//	func handler(ctx *YourContext) handler.Response {
//		p, _ := middleware.GetPrincipal(ctx)
//		if p.IsAdmin() { /* ... */ }
//		// ...
//	}
//
// # Tenant Middleware
//
// Tenant reconciles the company slug in the URL with the session's
// selected company. The URL is authoritative: a stale session selection is
// rewritten to match, and a slug the caller may not act for redirects to
// the same path under their first accessible company.
//
//	app.Use(middleware.Tenant[*YourContext](directory, sessions))
//
//	func handler(ctx *YourContext) handler.Response {
//		company, _ := middleware.GetCompany(ctx)
//		// ...
//	}
//
// # Policy Middleware
//
// Policy enforces capability tiers over path prefixes, first match wins.
// Unmatched paths are open; matched paths require at least an
// authenticated session, and denials redirect to the denied page.
//
//	chain := middleware.MustNewChain(
//		middleware.Rule{Prefix: "/super-admin", Capability: middleware.CapabilitySuperAdmin},
//		middleware.Rule{Prefix: "/admin", Capability: middleware.CapabilityAdmin},
//	)
//	app.Use(middleware.Policy[*YourContext](chain))
package middleware
