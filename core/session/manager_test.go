package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyboard/gateway/core/session"
)

func newManager(t *testing.T, opts ...session.Option) (*session.Manager[testData], *session.MemoryStore[testData]) {
	t.Helper()
	store := session.NewMemoryStore[testData]()
	return session.NewManager(store, opts...), store
}

func TestManagerGetByToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		mgr, store := newManager(t)

		sess, err := mgr.New(session.NewSessionParams{IP: "192.0.2.1"})
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, &sess))

		got, err := mgr.GetByToken(ctx, sess.Token)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, got.ID)
	})

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()
		mgr, _ := newManager(t)

		_, err := mgr.GetByToken(ctx, "no-such-token")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("expired session", func(t *testing.T) {
		t.Parallel()
		mgr, store := newManager(t, session.WithTTL(-time.Minute))

		sess, err := session.New[testData](session.NewSessionParams{IP: "192.0.2.1"}, -time.Minute)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, &sess))

		_, err = mgr.GetByToken(ctx, sess.Token)
		assert.ErrorIs(t, err, session.ErrExpired)
	})
}

func TestManagerAuthenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mgr, store := newManager(t)

	sess, err := mgr.New(session.NewSessionParams{IP: "192.0.2.1"})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &sess))
	oldToken := sess.Token

	userID := uuid.New()
	authSess, err := mgr.Authenticate(ctx, sess, userID)
	require.NoError(t, err)

	assert.Equal(t, userID, authSess.UserID)
	assert.NotEqual(t, oldToken, authSess.Token)

	// The old token is no longer resolvable; the new one is.
	_, err = mgr.GetByToken(ctx, oldToken)
	assert.ErrorIs(t, err, session.ErrNotFound)

	got, err := mgr.GetByToken(ctx, authSess.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
}

func TestManagerLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mgr, store := newManager(t)

	sess, err := mgr.New(session.NewSessionParams{IP: "192.0.2.1", UserAgent: "ua"})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &sess))

	anon, err := mgr.Logout(ctx, sess)
	require.NoError(t, err)

	assert.False(t, anon.IsAuthenticated())
	assert.Equal(t, "ua", anon.UserAgent)
	assert.NotEqual(t, sess.ID, anon.ID)

	_, err = mgr.GetByToken(ctx, sess.Token)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestManagerStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("persists modified session", func(t *testing.T) {
		t.Parallel()
		mgr, _ := newManager(t)

		sess, err := mgr.New(session.NewSessionParams{IP: "192.0.2.1"})
		require.NoError(t, err)

		require.NoError(t, mgr.Store(ctx, sess))

		got, err := mgr.GetByToken(ctx, sess.Token)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, got.ID)
	})

	t.Run("deleted session removed and flagged", func(t *testing.T) {
		t.Parallel()
		mgr, store := newManager(t)

		sess, err := mgr.New(session.NewSessionParams{IP: "192.0.2.1"})
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, &sess))

		sess.Logout()
		err = mgr.Store(ctx, sess)
		assert.ErrorIs(t, err, session.ErrNotAuthenticated)

		_, err = mgr.GetByToken(ctx, sess.Token)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})
}

func TestManagerUpdateData(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("persisted session", func(t *testing.T) {
		t.Parallel()
		mgr, store := newManager(t)

		sess, err := mgr.New(session.NewSessionParams{IP: "192.0.2.1"})
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, &sess))

		companyID := uuid.New()
		require.NoError(t, mgr.UpdateData(ctx, &sess, func(d *testData) {
			d.CompanyID = companyID
		}))

		assert.Equal(t, companyID, sess.Data.CompanyID)

		got, err := mgr.GetByToken(ctx, sess.Token)
		require.NoError(t, err)
		assert.Equal(t, companyID, got.Data.CompanyID, "update must be visible in the store immediately")
	})

	t.Run("unsaved session mutates local copy", func(t *testing.T) {
		t.Parallel()
		mgr, _ := newManager(t)

		sess, err := mgr.New(session.NewSessionParams{IP: "192.0.2.1"})
		require.NoError(t, err)

		companyID := uuid.New()
		require.NoError(t, mgr.UpdateData(ctx, &sess, func(d *testData) {
			d.CompanyID = companyID
		}))

		assert.Equal(t, companyID, sess.Data.CompanyID)
		assert.True(t, sess.IsModified())
	})
}

func TestManagerCleanupExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mgr, store := newManager(t)

	live, err := session.New[testData](session.NewSessionParams{IP: "192.0.2.1"}, time.Hour)
	require.NoError(t, err)
	dead, err := session.New[testData](session.NewSessionParams{IP: "192.0.2.1"}, -time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &live))
	require.NoError(t, store.Save(ctx, &dead))

	deleted, err := mgr.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, err = mgr.GetByToken(ctx, live.Token)
	assert.NoError(t, err)
}
