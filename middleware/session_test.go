package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tallyboard/gateway/core/handler"
	"github.com/tallyboard/gateway/core/response"
	"github.com/tallyboard/gateway/core/session"
	"github.com/tallyboard/gateway/middleware"
)

// testSessionData is the session data type used in all tests
type testSessionData struct {
	Theme string
}

// mockTransport implements the Transport interface for testing
type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Load(ctx handler.Context) (session.Session[testSessionData], error) {
	args := m.Called(ctx)
	return args.Get(0).(session.Session[testSessionData]), args.Error(1)
}

func (m *mockTransport) Store(ctx handler.Context, sess session.Session[testSessionData]) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func newAuthSession(t *testing.T) session.Session[testSessionData] {
	t.Helper()
	sess, err := session.New[testSessionData](session.NewSessionParams{
		IP:        "192.0.2.1",
		UserAgent: "test-agent",
	}, time.Hour)
	require.NoError(t, err)
	require.NoError(t, sess.Authenticate(uuid.New()))
	return sess
}

func serve(mw handler.Middleware[handler.Context], endpoint handler.HandlerFunc[handler.Context]) http.Handler {
	return handler.Serve(handler.NewContext, endpoint, mw)
}

func TestSession(t *testing.T) {
	t.Parallel()

	t.Run("loads session and stores it after the request", func(t *testing.T) {
		t.Parallel()

		sess := newAuthSession(t)
		transport := &mockTransport{}
		transport.On("Load", mock.Anything).Return(sess, nil)
		transport.On("Store", mock.Anything, mock.Anything).Return(nil)

		h := serve(
			middleware.Session[handler.Context, testSessionData](transport),
			func(ctx handler.Context) handler.Response {
				loaded, ok := middleware.GetSession[testSessionData](ctx)
				require.True(t, ok)
				assert.Equal(t, sess.ID, loaded.ID)
				assert.Equal(t, sess.UserID, loaded.UserID)
				return response.Text(http.StatusOK, "ok")
			},
		)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		transport.AssertExpectations(t)
	})

	t.Run("load failure degrades to empty session", func(t *testing.T) {
		t.Parallel()

		transport := &mockTransport{}
		transport.On("Load", mock.Anything).
			Return(session.Session[testSessionData]{}, errors.New("bad cookie"))
		transport.On("Store", mock.Anything, mock.Anything).Return(nil)

		h := serve(
			middleware.Session[handler.Context, testSessionData](transport),
			func(ctx handler.Context) handler.Response {
				loaded, ok := middleware.GetSession[testSessionData](ctx)
				require.True(t, ok)
				assert.False(t, loaded.IsAuthenticated())
				return response.Text(http.StatusOK, "ok")
			},
		)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("stores handler modifications", func(t *testing.T) {
		t.Parallel()

		sess := newAuthSession(t)
		transport := &mockTransport{}
		transport.On("Load", mock.Anything).Return(sess, nil)
		transport.On("Store", mock.Anything, mock.MatchedBy(func(s session.Session[testSessionData]) bool {
			return s.Data.Theme == "dark"
		})).Return(nil)

		h := serve(
			middleware.Session[handler.Context, testSessionData](transport),
			func(ctx handler.Context) handler.Response {
				s := middleware.MustGetSession[testSessionData](ctx)
				s.SetData(testSessionData{Theme: "dark"})
				middleware.SetSession(ctx, s)
				return response.Text(http.StatusOK, "ok")
			},
		)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		transport.AssertExpectations(t)
	})

	t.Run("store failure invokes error handler", func(t *testing.T) {
		t.Parallel()

		sess := newAuthSession(t)
		transport := &mockTransport{}
		transport.On("Load", mock.Anything).Return(sess, nil)
		transport.On("Store", mock.Anything, mock.Anything).Return(errors.New("store down"))

		h := serve(
			middleware.Session[handler.Context, testSessionData](transport),
			func(ctx handler.Context) handler.Response {
				return response.Text(http.StatusOK, "ok")
			},
		)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("require auth rejects anonymous", func(t *testing.T) {
		t.Parallel()

		anon, err := session.New[testSessionData](session.NewSessionParams{IP: "192.0.2.1"}, time.Hour)
		require.NoError(t, err)

		transport := &mockTransport{}
		transport.On("Load", mock.Anything).Return(anon, nil)

		h := serve(
			middleware.SessionWithConfig(middleware.SessionConfig[handler.Context, testSessionData]{
				Transport:   transport,
				RequireAuth: true,
			}),
			func(ctx handler.Context) handler.Response {
				t.Fatal("handler must not run")
				return nil
			},
		)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("require guest rejects authenticated", func(t *testing.T) {
		t.Parallel()

		sess := newAuthSession(t)
		transport := &mockTransport{}
		transport.On("Load", mock.Anything).Return(sess, nil)

		h := serve(
			middleware.SessionWithConfig(middleware.SessionConfig[handler.Context, testSessionData]{
				Transport:    transport,
				RequireGuest: true,
				ErrorHandler: func(ctx handler.Context, err error) handler.Response {
					return response.Redirect("/")
				},
			}),
			func(ctx handler.Context) handler.Response {
				t.Fatal("handler must not run")
				return nil
			},
		)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("skip bypasses the middleware", func(t *testing.T) {
		t.Parallel()

		transport := &mockTransport{}

		h := serve(
			middleware.SessionWithConfig(middleware.SessionConfig[handler.Context, testSessionData]{
				Transport: transport,
				Skip:      func(ctx handler.Context) bool { return true },
			}),
			func(ctx handler.Context) handler.Response {
				_, ok := middleware.GetSession[testSessionData](ctx)
				assert.False(t, ok)
				return response.Text(http.StatusOK, "ok")
			},
		)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		transport.AssertNotCalled(t, "Load")
	})

	t.Run("panics without transport", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			middleware.SessionWithConfig(middleware.SessionConfig[handler.Context, testSessionData]{})
		})
	})

	t.Run("panics when both require flags are set", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			middleware.SessionWithConfig(middleware.SessionConfig[handler.Context, testSessionData]{
				Transport:    &mockTransport{},
				RequireAuth:  true,
				RequireGuest: true,
			})
		})
	})
}
