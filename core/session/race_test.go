package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyboard/gateway/core/session"
)

// TestUpdateDataNoLostUpdates exercises the atomic read-modify-write
// guarantee: N goroutines sharing one session (parallel XHRs from a single
// browser) each bump a counter through UpdateData, and no increment is lost.
func TestUpdateDataNoLostUpdates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := session.NewMemoryStore[testData]()
	mgr := session.NewManager(store)

	sess, err := mgr.New(session.NewSessionParams{IP: "192.0.2.1"})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &sess))

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			local := sess
			_ = mgr.UpdateData(ctx, &local, func(d *testData) {
				d.Counter++
			})
		}()
	}
	wg.Wait()

	got, err := store.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, workers, got.Data.Counter)
}

// TestConcurrentSaveAndRead checks the store holds up under mixed load from
// independent sessions.
func TestConcurrentSaveAndRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := session.NewMemoryStore[testData]()

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			sess, err := session.New[testData](session.NewSessionParams{IP: "192.0.2.1"}, time.Hour)
			if err != nil {
				return
			}
			_ = store.Save(ctx, &sess)
			_, _ = store.GetByToken(ctx, sess.Token)
			_, _ = store.DeleteExpired(ctx)
			_ = store.Delete(ctx, sess.ID)
		}()
	}
	wg.Wait()
}
