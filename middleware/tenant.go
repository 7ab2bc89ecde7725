package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tallyboard/gateway/core/handler"
	"github.com/tallyboard/gateway/core/logger"
	"github.com/tallyboard/gateway/core/response"
	"github.com/tallyboard/gateway/core/session"
	"github.com/tallyboard/gateway/pkg/slug"
	"github.com/tallyboard/gateway/tenant"
)

type companyKey struct{}

// defaultDirectoryTimeout caps every directory lookup per request so a slow
// company directory degrades to "not found" instead of blocking navigation.
const defaultDirectoryTimeout = 3 * time.Second

// DefaultExcludedPrefixes are the path prefixes the tenant resolver never
// treats as company slugs: administrative areas, assets, the API surface,
// and the auth flow. A company whose name normalizes to one of these
// segments is simply not addressable by slug; the exclusion check runs
// before slug resolution on purpose.
var DefaultExcludedPrefixes = []string{
	"/admin",
	"/super-admin",
	"/api",
	"/auth",
	"/account",
	"/login",
	"/logout",
	"/assets",
	"/static",
	"/favicon.ico",
	"/access-denied",
}

// TenantConfig configures the company context resolver.
type TenantConfig[C handler.Context] struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx C) bool
	// Directory resolves slugs and access grants (required)
	Directory tenant.Directory
	// Sessions persists the selected-company binding atomically (required)
	Sessions *session.Manager[tenant.SessionData]
	// ExcludedPrefixes are paths never treated as company URLs
	// (default: DefaultExcludedPrefixes)
	ExcludedPrefixes []string
	// Timeout bounds each directory call (default: 3s)
	Timeout time.Duration
	// Logger for structured logging (default: discard)
	Logger *slog.Logger
}

// Tenant creates the company context resolver. For every path of the form
// /{company-slug}/..., it guarantees that the slug denotes a company the
// caller may act for and that the session's selected company matches the
// URL. When the caller lacks access it transparently redirects to the same
// path under their first accessible company instead of erroring; when the
// session selection is merely stale it rewrites it in place (the session
// follows the URL, never the reverse).
//
// The resolver stays out of the way everywhere else: excluded prefixes,
// anonymous callers, and unknown slugs all pass through untouched for the
// downstream auth flow or router to handle.
func Tenant[C handler.Context](directory tenant.Directory, sessions *session.Manager[tenant.SessionData]) handler.Middleware[C] {
	return TenantWithConfig(TenantConfig[C]{Directory: directory, Sessions: sessions})
}

// TenantWithConfig creates the company context resolver with custom configuration.
func TenantWithConfig[C handler.Context](cfg TenantConfig[C]) handler.Middleware[C] {
	if cfg.Directory == nil {
		panic("tenant middleware: directory is required")
	}
	if cfg.Sessions == nil {
		panic("tenant middleware: session manager is required")
	}
	if cfg.ExcludedPrefixes == nil {
		cfg.ExcludedPrefixes = DefaultExcludedPrefixes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultDirectoryTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewDiscard()
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			path := ctx.Request().URL.Path

			// Excluded prefixes win over slug resolution, always.
			for _, prefix := range cfg.ExcludedPrefixes {
				if matchesPrefix(path, prefix) {
					return next(ctx)
				}
			}

			candidateSlug, rest := splitSlug(path)
			if candidateSlug == "" {
				return next(ctx)
			}

			// Incoming segments go through the same normalization that
			// produced the stored slugs, so /Acme-Corp resolves like
			// /acme-corp does.
			candidateSlug = slug.Make(candidateSlug)
			if candidateSlug == "" {
				return next(ctx)
			}

			// Anonymous callers pass through; forcing a login redirect is
			// the auth flow's job, not the resolver's.
			principal, ok := GetPrincipal(ctx)
			if !ok || !principal.IsAuthenticated() {
				return next(ctx)
			}

			dctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()

			// Unknown slugs (and directory outages) are not this
			// component's concern; the router will 404.
			company, err := cfg.Directory.FindBySlug(dctx, candidateSlug)
			if err != nil {
				return next(ctx)
			}

			hasAccess := principal.IsSuperAdmin()
			if !hasAccess {
				granted, err := cfg.Directory.HasAccess(dctx, principal.UserID, company.ID)
				if err != nil {
					cfg.Logger.WarnContext(ctx, "company access check failed, treating as denied",
						slog.String("company", company.Slug),
						logger.Error(err),
					)
				}
				hasAccess = err == nil && granted
			}

			if !hasAccess {
				return redirectToFallback(ctx, cfg, dctx, principal.UserID, principal.IsSuperAdmin(), rest, next)
			}

			// Session follows URL: rewrite a stale or absent selection.
			if sess, ok := GetSession[tenant.SessionData](ctx); ok && sess.Data.CompanyID != company.ID {
				if err := selectInSession(ctx, cfg.Sessions, &sess, company.ID); err != nil {
					cfg.Logger.ErrorContext(ctx, "failed to persist company selection",
						slog.String("company", company.Slug),
						logger.Error(err),
					)
				}
			}

			ctx.SetValue(companyKey{}, company)
			return next(ctx)
		}
	}
}

// redirectToFallback handles the denied-slug case: pick the caller's first
// accessible company, move the session selection there, and redirect to the
// same path under the corrected slug. With zero accessible companies the
// request passes through for downstream layers to render an empty state.
func redirectToFallback[C handler.Context](
	ctx C,
	cfg TenantConfig[C],
	dctx context.Context,
	userID uuid.UUID,
	includeAll bool,
	rest string,
	next handler.HandlerFunc[C],
) handler.Response {
	companies, err := cfg.Directory.AccessibleCompanies(dctx, userID, includeAll)
	if err != nil || len(companies) == 0 {
		if err != nil {
			cfg.Logger.WarnContext(ctx, "accessible-company lookup failed",
				slog.String("user_id", userID.String()),
				logger.Error(err),
			)
		}
		return next(ctx)
	}

	fallback := companies[0]

	if sess, ok := GetSession[tenant.SessionData](ctx); ok && sess.Data.CompanyID != fallback.ID {
		if err := selectInSession(ctx, cfg.Sessions, &sess, fallback.ID); err != nil {
			cfg.Logger.ErrorContext(ctx, "failed to persist fallback company selection",
				slog.String("company", fallback.Slug),
				logger.Error(err),
			)
		}
	}

	target := "/" + fallback.Slug + rest
	if q := ctx.Request().URL.RawQuery; q != "" {
		target += "?" + q
	}

	// Operator-facing only; the denied caller just sees the redirect and
	// learns nothing about the tenant they probed.
	cfg.Logger.InfoContext(ctx, "company access denied, redirecting to fallback",
		slog.String("path", ctx.Request().URL.Path),
		slog.String("user_id", userID.String()),
		slog.String("fallback", fallback.Slug),
	)

	return response.Redirect(target)
}

// selectInSession atomically writes the company selection through the
// session store and mirrors it into the context copy so later stages and
// the end-of-request save observe the same state.
func selectInSession(ctx handler.Context, sessions *session.Manager[tenant.SessionData], sess *session.Session[tenant.SessionData], companyID uuid.UUID) error {
	if err := sessions.UpdateData(ctx, sess, func(d *tenant.SessionData) {
		d.CompanyID = companyID
	}); err != nil {
		return err
	}
	SetSession(ctx, *sess)
	return nil
}

// SelectCompany is the explicit company-switcher operation. It validates
// access the same way the resolver does (super-admins bypass the grant
// check), then writes the selection atomically. Returns
// tenant.ErrCompanyNotFound when the principal may not act for the company.
func SelectCompany(ctx handler.Context, sessions *session.Manager[tenant.SessionData], directory tenant.Directory, companyID uuid.UUID) error {
	principal, ok := GetPrincipal(ctx)
	if !ok || !principal.IsAuthenticated() {
		return tenant.ErrCompanyNotFound
	}

	if !principal.IsSuperAdmin() {
		granted, err := directory.HasAccess(ctx, principal.UserID, companyID)
		if err != nil {
			return err
		}
		if !granted {
			return tenant.ErrCompanyNotFound
		}
	}

	sess, ok := GetSession[tenant.SessionData](ctx)
	if !ok {
		return session.ErrNotFound
	}
	return selectInSession(ctx, sessions, &sess, companyID)
}

// GetCompany retrieves the effective company resolved for this request.
// Only set on company-scoped paths after the tenant middleware allowed them.
func GetCompany(ctx handler.Context) (tenant.Company, bool) {
	if ctx == nil {
		return tenant.Company{}, false
	}

	if c, ok := ctx.Value(companyKey{}).(tenant.Company); ok {
		return c, true
	}

	return tenant.Company{}, false
}

// splitSlug separates the first path segment from the remainder:
// "/acme/reports/q3" → ("acme", "/reports/q3"). The remainder keeps its
// leading slash so redirect targets rebuild by plain concatenation, leaving
// every trailing segment byte-identical.
func splitSlug(path string) (slug, rest string) {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return "", ""
	}

	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i], trimmed[i:]
	}
	return trimmed, ""
}

// matchesPrefix reports whether path falls under prefix on a segment
// boundary: "/admin" covers "/admin" and "/admin/users" but not
// "/administrator".
func matchesPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
