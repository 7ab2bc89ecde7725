package session_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyboard/gateway/core/session"
)

type testData struct {
	CompanyID uuid.UUID
	Counter   int
}

func newTestSession(t *testing.T) session.Session[testData] {
	t.Helper()
	sess, err := session.New[testData](session.NewSessionParams{
		IP:        "192.0.2.1",
		UserAgent: "test-agent",
	}, time.Hour)
	require.NoError(t, err)
	return sess
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates anonymous session", func(t *testing.T) {
		t.Parallel()
		sess := newTestSession(t)

		assert.NotEqual(t, uuid.Nil, sess.ID)
		assert.NotEmpty(t, sess.Token)
		assert.Equal(t, uuid.Nil, sess.UserID)
		assert.False(t, sess.IsAuthenticated())
		assert.True(t, sess.IsModified())
		assert.False(t, sess.IsExpired())
	})

	t.Run("requires IP", func(t *testing.T) {
		t.Parallel()
		_, err := session.New[testData](session.NewSessionParams{}, time.Hour)
		assert.ErrorIs(t, err, session.ErrMissingIP)
	})

	t.Run("unique tokens", func(t *testing.T) {
		t.Parallel()
		a := newTestSession(t)
		b := newTestSession(t)
		assert.NotEqual(t, a.Token, b.Token)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t)
	sess.SetData(testData{CompanyID: uuid.New()})
	oldToken := sess.Token
	userID := uuid.New()

	require.NoError(t, sess.Authenticate(userID))

	assert.Equal(t, userID, sess.UserID)
	assert.True(t, sess.IsAuthenticated())
	assert.NotEqual(t, oldToken, sess.Token, "token must rotate on authentication")
	assert.Equal(t, testData{}, sess.Data, "data selected before login must not survive it")
}

func TestRefreshRotatesTokenOnly(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t)
	require.NoError(t, sess.Authenticate(uuid.New()))

	userID := sess.UserID
	oldToken := sess.Token

	require.NoError(t, sess.Refresh())
	assert.NotEqual(t, oldToken, sess.Token)
	assert.Equal(t, userID, sess.UserID)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t)
	assert.False(t, sess.IsDeleted())

	sess.Logout()
	assert.True(t, sess.IsDeleted())
	assert.True(t, sess.IsModified())
}

func TestTouch(t *testing.T) {
	t.Parallel()

	t.Run("extends after interval", func(t *testing.T) {
		t.Parallel()
		sess := newTestSession(t)
		sess.UpdatedAt = time.Now().Add(-10 * time.Minute)
		oldExpiry := sess.ExpiresAt

		sess.Touch(time.Hour, 5*time.Minute)
		assert.True(t, sess.ExpiresAt.After(oldExpiry))
	})

	t.Run("throttled within interval", func(t *testing.T) {
		t.Parallel()
		sess := newTestSession(t)
		oldExpiry := sess.ExpiresAt

		sess.Touch(time.Hour, 5*time.Minute)
		assert.Equal(t, oldExpiry, sess.ExpiresAt)
	})
}

func TestIsExpired(t *testing.T) {
	t.Parallel()

	sess, err := session.New[testData](session.NewSessionParams{IP: "192.0.2.1"}, -time.Minute)
	require.NoError(t, err)
	assert.True(t, sess.IsExpired())
}
