package middleware

import (
	"log/slog"

	"github.com/tallyboard/gateway/core/handler"
	"github.com/tallyboard/gateway/core/logger"
	"github.com/tallyboard/gateway/core/response"
	"github.com/tallyboard/gateway/core/session"
)

type sessionKey struct{}

// SessionConfig configures the session middleware.
type SessionConfig[C handler.Context, Data any] struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx C) bool
	// Transport implements Load and Store methods for session management
	Transport interface {
		Load(handler.Context) (session.Session[Data], error)
		Store(handler.Context, session.Session[Data]) error
	}
	// Logger for structured logging (default: discard)
	Logger *slog.Logger
	// RequireAuth enforces an authenticated user; unauthenticated requests
	// get the ErrorHandler response.
	RequireAuth bool
	// RequireGuest enforces guest/unauthenticated (login and signup pages).
	RequireGuest bool
	// ErrorHandler defines the response for auth failures and store errors.
	// Default: response.Error(response.ErrUnauthorized).
	ErrorHandler func(ctx C, err error) handler.Response
}

// Session creates middleware that loads the session from the transport,
// stores it in the request context, and writes it back after the request.
//
// Load failures degrade to an empty session instead of failing the request;
// store failures are delegated to the ErrorHandler.
func Session[C handler.Context, Data any](
	transport interface {
		Load(handler.Context) (session.Session[Data], error)
		Store(handler.Context, session.Session[Data]) error
	},
) handler.Middleware[C] {
	return SessionWithConfig[C, Data](SessionConfig[C, Data]{
		Transport: transport,
	})
}

// SessionWithConfig creates a session middleware with custom configuration.
func SessionWithConfig[C handler.Context, Data any](cfg SessionConfig[C, Data]) handler.Middleware[C] {
	if cfg.Transport == nil {
		panic("session middleware: transport is required")
	}

	if cfg.RequireAuth && cfg.RequireGuest {
		panic("session middleware: RequireAuth and RequireGuest cannot both be true")
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.NewDiscard()
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx C, err error) handler.Response {
			return response.Error(response.ErrUnauthorized)
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			sess, err := cfg.Transport.Load(ctx)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return response.Error(ctxErr)
				}
				cfg.Logger.ErrorContext(ctx, "session load failed", logger.Error(err))
				// Graceful degradation instead of failing the request.
				sess = session.Session[Data]{}
			}

			if cfg.RequireAuth && !sess.IsAuthenticated() {
				return cfg.ErrorHandler(ctx, response.ErrUnauthorized)
			}

			if cfg.RequireGuest && sess.IsAuthenticated() {
				return cfg.ErrorHandler(ctx, response.ErrForbidden)
			}

			ctx.SetValue(sessionKey{}, sess)

			resp := next(ctx)

			// Handlers and later stages may have replaced the session.
			currentSess, ok := GetSession[Data](ctx)
			if !ok {
				return resp
			}

			if err := cfg.Transport.Store(ctx, currentSess); err != nil {
				cfg.Logger.ErrorContext(ctx, "session store failed", logger.Error(err))
				return cfg.ErrorHandler(ctx, err)
			}

			return resp
		}
	}
}

// GetSession retrieves the session from context.
// Returns the session and true if found, an empty session and false otherwise.
func GetSession[Data any](ctx handler.Context) (session.Session[Data], bool) {
	if ctx == nil {
		return session.Session[Data]{}, false
	}

	if sess, ok := ctx.Value(sessionKey{}).(session.Session[Data]); ok {
		return sess, true
	}

	return session.Session[Data]{}, false
}

// MustGetSession retrieves the session from context or panics if not found.
// Use this when session existence is guaranteed by middleware.
func MustGetSession[Data any](ctx handler.Context) session.Session[Data] {
	sess, ok := GetSession[Data](ctx)
	if !ok {
		panic("session not found in context")
	}
	return sess
}

// SetSession updates the session in context.
// Use this to store modified session state during request processing.
func SetSession[Data any](ctx handler.Context, sess session.Session[Data]) {
	ctx.SetValue(sessionKey{}, sess)
}
