package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyboard/gateway/auth"
	"github.com/tallyboard/gateway/core/handler"
	"github.com/tallyboard/gateway/core/response"
	"github.com/tallyboard/gateway/core/session"
	"github.com/tallyboard/gateway/middleware"
)

// withSession installs a fixed session before the middleware under test,
// standing in for the session middleware.
func withSession(sess session.Session[testSessionData]) handler.Middleware[handler.Context] {
	return func(next handler.HandlerFunc[handler.Context]) handler.HandlerFunc[handler.Context] {
		return func(ctx handler.Context) handler.Response {
			middleware.SetSession(ctx, sess)
			return next(ctx)
		}
	}
}

func TestAuth(t *testing.T) {
	t.Parallel()

	t.Run("resolves principal for authenticated session", func(t *testing.T) {
		t.Parallel()

		sess := newAuthSession(t)
		resolver := auth.ResolverFunc(func(ctx context.Context, userID uuid.UUID) (auth.Principal, error) {
			require.Equal(t, sess.UserID, userID)
			return auth.Principal{UserID: userID, Roles: auth.NewRoles(auth.RoleAdmin)}, nil
		})

		h := handler.Serve(handler.NewContext,
			func(ctx handler.Context) handler.Response {
				p, ok := middleware.GetPrincipal(ctx)
				require.True(t, ok)
				assert.Equal(t, sess.UserID, p.UserID)
				assert.True(t, p.IsAdmin())
				assert.False(t, p.IsSuperAdmin())
				return response.Text(http.StatusOK, "ok")
			},
			withSession(sess),
			middleware.Auth[handler.Context, testSessionData](resolver),
		)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("anonymous session skips the resolver", func(t *testing.T) {
		t.Parallel()

		anon, err := session.New[testSessionData](session.NewSessionParams{IP: "192.0.2.1"}, time.Hour)
		require.NoError(t, err)

		resolver := auth.ResolverFunc(func(ctx context.Context, userID uuid.UUID) (auth.Principal, error) {
			t.Fatal("resolver must not be called")
			return auth.Principal{}, nil
		})

		h := handler.Serve(handler.NewContext,
			func(ctx handler.Context) handler.Response {
				p, ok := middleware.GetPrincipal(ctx)
				require.True(t, ok)
				assert.False(t, p.IsAuthenticated())
				return response.Text(http.StatusOK, "ok")
			},
			withSession(anon),
			middleware.Auth[handler.Context, testSessionData](resolver),
		)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("resolver failure degrades to anonymous", func(t *testing.T) {
		t.Parallel()

		sess := newAuthSession(t)
		resolver := auth.ResolverFunc(func(ctx context.Context, userID uuid.UUID) (auth.Principal, error) {
			return auth.Principal{}, errors.New("directory down")
		})

		h := handler.Serve(handler.NewContext,
			func(ctx handler.Context) handler.Response {
				p, ok := middleware.GetPrincipal(ctx)
				require.True(t, ok)
				assert.False(t, p.IsAuthenticated())
				return response.Text(http.StatusOK, "ok")
			},
			withSession(sess),
			middleware.Auth[handler.Context, testSessionData](resolver),
		)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing user record degrades to anonymous", func(t *testing.T) {
		t.Parallel()

		sess := newAuthSession(t)
		resolver := auth.ResolverFunc(func(ctx context.Context, userID uuid.UUID) (auth.Principal, error) {
			return auth.Principal{}, auth.ErrUserNotFound
		})

		h := handler.Serve(handler.NewContext,
			func(ctx handler.Context) handler.Response {
				p, _ := middleware.GetPrincipal(ctx)
				assert.False(t, p.IsAuthenticated())
				return response.Text(http.StatusOK, "ok")
			},
			withSession(sess),
			middleware.Auth[handler.Context, testSessionData](resolver),
		)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("principal absent without the middleware", func(t *testing.T) {
		t.Parallel()

		h := handler.Serve(handler.NewContext,
			func(ctx handler.Context) handler.Response {
				p, ok := middleware.GetPrincipal(ctx)
				assert.False(t, ok)
				assert.False(t, p.IsAuthenticated())
				return response.Text(http.StatusOK, "ok")
			},
		)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("panics without resolver", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			middleware.AuthWithConfig(middleware.AuthConfig[handler.Context, testSessionData]{})
		})
	})
}
