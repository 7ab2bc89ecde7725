package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/tallyboard/gateway/auth"
	"github.com/tallyboard/gateway/core/handler"
	"github.com/tallyboard/gateway/core/logger"
)

type principalKey struct{}

// defaultResolveTimeout caps the identity lookup so a slow user store cannot
// stall public pages.
const defaultResolveTimeout = 3 * time.Second

// AuthConfig configures the authentication bridge.
type AuthConfig[C handler.Context, Data any] struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx C) bool
	// Resolver turns the session's user id into a Principal (required)
	Resolver auth.Resolver
	// Timeout bounds the resolver call (default: 3s)
	Timeout time.Duration
	// Logger for structured logging (default: discard)
	Logger *slog.Logger
}

// Auth creates the authentication bridge: it runs once per request, after
// the session middleware, and installs the resolved Principal in context
// before any authorization decision.
//
// The bridge never fails a request. An anonymous session yields
// auth.Anonymous(), and so does any resolver error: a directory outage
// while determining identity must not take down public pages. Authorization
// itself stays fail-closed: an anonymous principal passes no protected rule.
func Auth[C handler.Context, Data any](resolver auth.Resolver) handler.Middleware[C] {
	return AuthWithConfig[C, Data](AuthConfig[C, Data]{Resolver: resolver})
}

// AuthWithConfig creates the authentication bridge with custom configuration.
func AuthWithConfig[C handler.Context, Data any](cfg AuthConfig[C, Data]) handler.Middleware[C] {
	if cfg.Resolver == nil {
		panic("auth middleware: resolver is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultResolveTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewDiscard()
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			principal := auth.Anonymous()

			if sess, ok := GetSession[Data](ctx); ok && sess.IsAuthenticated() {
				rctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
				resolved, err := cfg.Resolver.Resolve(rctx, sess.UserID)
				cancel()
				if err != nil {
					// Degrade to anonymous; roles may simply be gone or
					// the store may be down. Either way the caller gets
					// the public surface, not an error page.
					cfg.Logger.WarnContext(ctx, "principal resolution failed, treating as anonymous",
						slog.String("user_id", sess.UserID.String()),
						logger.Error(err),
					)
				} else {
					principal = resolved
				}
			}

			ctx.SetValue(principalKey{}, principal)

			return next(ctx)
		}
	}
}

// GetPrincipal retrieves the resolved principal from context.
// Returns auth.Anonymous() and false when the bridge has not run.
func GetPrincipal(ctx handler.Context) (auth.Principal, bool) {
	if ctx == nil {
		return auth.Anonymous(), false
	}

	if p, ok := ctx.Value(principalKey{}).(auth.Principal); ok {
		return p, true
	}

	return auth.Anonymous(), false
}
