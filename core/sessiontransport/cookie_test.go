package sessiontransport_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyboard/gateway/core/cookie"
	"github.com/tallyboard/gateway/core/handler"
	"github.com/tallyboard/gateway/core/session"
	"github.com/tallyboard/gateway/core/sessiontransport"
)

type testData struct {
	CompanyID uuid.UUID
}

func newTransport(t *testing.T) (*sessiontransport.Cookie[testData], *session.MemoryStore[testData]) {
	t.Helper()

	cookieMgr, err := cookie.New([]string{"test-secret-that-is-32-chars-long!!"})
	require.NoError(t, err)

	store := session.NewMemoryStore[testData]()
	mgr := session.NewManager(store)
	return sessiontransport.NewCookie(mgr, cookieMgr, ""), store
}

func newCtx(w http.ResponseWriter, cookies ...*http.Cookie) handler.Context {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return handler.NewContext(w, r)
}

func TestLoadWithoutCookieCreatesAnonymous(t *testing.T) {
	t.Parallel()

	transport, _ := newTransport(t)
	sess, err := transport.Load(newCtx(httptest.NewRecorder()))

	require.NoError(t, err)
	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, "192.0.2.1", sess.IP)
}

func TestStoreThenLoadRoundTrip(t *testing.T) {
	t.Parallel()

	transport, _ := newTransport(t)

	w := httptest.NewRecorder()
	ctx := newCtx(w)

	sess, err := transport.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, transport.Store(ctx, sess))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessiontransport.DefaultCookieName, cookies[0].Name)
	assert.Positive(t, cookies[0].MaxAge)

	got, err := transport.Load(newCtx(httptest.NewRecorder(), cookies[0]))
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
}

func TestTamperedCookieDegradesToAnonymous(t *testing.T) {
	t.Parallel()

	transport, _ := newTransport(t)

	w := httptest.NewRecorder()
	ctx := newCtx(w)
	sess, err := transport.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, transport.Store(ctx, sess))

	c := w.Result().Cookies()[0]
	c.Value = "tampered" + c.Value

	got, err := transport.Load(newCtx(httptest.NewRecorder(), c))
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, got.ID)
	assert.False(t, got.IsAuthenticated())
}

func TestAuthenticateRotatesCookie(t *testing.T) {
	t.Parallel()

	transport, _ := newTransport(t)

	w := httptest.NewRecorder()
	ctx := newCtx(w)
	sess, err := transport.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, transport.Store(ctx, sess))
	anonCookie := w.Result().Cookies()[0]

	w2 := httptest.NewRecorder()
	ctx2 := newCtx(w2, anonCookie)
	userID := uuid.New()

	authSess, err := transport.Authenticate(ctx2, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, authSess.UserID)

	authCookie := w2.Result().Cookies()[0]
	assert.NotEqual(t, anonCookie.Value, authCookie.Value, "cookie must rotate with the token")

	got, err := transport.Load(newCtx(httptest.NewRecorder(), authCookie))
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
}

func TestLogoutDestroysSession(t *testing.T) {
	t.Parallel()

	transport, store := newTransport(t)

	w := httptest.NewRecorder()
	ctx := newCtx(w)
	sess, err := transport.Authenticate(ctx, uuid.New())
	require.NoError(t, err)

	authCookie := w.Result().Cookies()[0]

	w2 := httptest.NewRecorder()
	anon, err := transport.Logout(newCtx(w2, authCookie))
	require.NoError(t, err)
	assert.False(t, anon.IsAuthenticated())

	_, err = store.GetByID(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestStoreDeletedSessionClearsCookie(t *testing.T) {
	t.Parallel()

	transport, _ := newTransport(t)

	w := httptest.NewRecorder()
	ctx := newCtx(w)
	sess, err := transport.Load(ctx)
	require.NoError(t, err)

	sess.Logout()
	require.NoError(t, transport.Store(ctx, sess))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
