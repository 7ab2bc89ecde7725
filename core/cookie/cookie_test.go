package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyboard/gateway/core/cookie"
)

const (
	testSecret    = "test-secret-that-is-32-chars-long!!"
	rotatedSecret = "another-secret-that-is-32-chars-long"
)

func setCookies(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	t.Run("no secrets", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.New(nil)
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("short secret", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.New([]string{"too-short"})
		assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
	})
}

func TestSignedRoundTrip(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, m.SetSigned(w, "tb_session", "token-value"))

	r := setCookies(t, w)
	got, err := m.GetSigned(r, "tb_session")
	require.NoError(t, err)
	assert.Equal(t, "token-value", got)
}

func TestSignedTamperDetection(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, m.SetSigned(w, "tb_session", "token-value"))

	c := w.Result().Cookies()[0]
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	// Flip a character in the encoded payload.
	tampered := *c
	tampered.Value = "x" + c.Value[1:]
	r.AddCookie(&tampered)

	_, err = m.GetSigned(r, "tb_session")
	assert.Error(t, err)
}

func TestSecretRotation(t *testing.T) {
	t.Parallel()

	old, err := cookie.New([]string{rotatedSecret})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, old.SetSigned(w, "tb_session", "token-value"))

	// New manager signs with a fresh secret but still verifies the old one.
	rotated, err := cookie.New([]string{testSecret, rotatedSecret})
	require.NoError(t, err)

	r := setCookies(t, w)
	got, err := rotated.GetSigned(r, "tb_session")
	require.NoError(t, err)
	assert.Equal(t, "token-value", got)
}

func TestUnknownSecretRejected(t *testing.T) {
	t.Parallel()

	signer, err := cookie.New([]string{rotatedSecret})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, signer.SetSigned(w, "tb_session", "token-value"))

	verifier, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	r := setCookies(t, w)
	_, err = verifier.GetSigned(r, "tb_session")
	assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
}

func TestGetMissingCookie(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err = m.Get(r, "absent")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	m.Delete(w, "tb_session")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}

func TestCookieTooLarge(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	err = m.Set(w, "big", strings.Repeat("x", cookie.MaxCookieSize))

	var tooLarge cookie.ErrCookieTooLarge
	assert.ErrorAs(t, err, &tooLarge)
}
