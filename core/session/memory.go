package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store implementation. It is the default for
// tests and single-node deployments; multi-node deployments should use the
// Redis-backed store from integration/database/redis.
//
// All operations, including UpdateData, run under the store mutex, which
// gives the atomic read-modify-write semantics the Store contract requires.
// Sessions are independent of each other, so a single mutex is enough here;
// contention is per-process, not per-user.
type MemoryStore[Data any] struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*Session[Data]
	byToken map[string]uuid.UUID
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore[Data any]() *MemoryStore[Data] {
	return &MemoryStore[Data]{
		byID:    make(map[uuid.UUID]*Session[Data]),
		byToken: make(map[string]uuid.UUID),
	}
}

// GetByID returns a copy of the stored session.
func (s *MemoryStore[Data]) GetByID(ctx context.Context, id uuid.UUID) (*Session[Data], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

// GetByToken returns a copy of the session owning the given token.
func (s *MemoryStore[Data]) GetByToken(ctx context.Context, token string) (*Session[Data], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	sess, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

// Save stores the session, reindexing the token if it was rotated.
func (s *MemoryStore[Data]) Save(ctx context.Context, sess *Session[Data]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byID[sess.ID]; ok && prev.Token != sess.Token {
		delete(s.byToken, prev.Token)
	}

	cp := *sess
	cp.isModified = false
	s.byID[cp.ID] = &cp
	s.byToken[cp.Token] = cp.ID
	return nil
}

// Delete removes the session and its token index entry.
func (s *MemoryStore[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byToken, sess.Token)
	delete(s.byID, id)
	return nil
}

// DeleteExpired removes all expired sessions and returns the count.
func (s *MemoryStore[Data]) DeleteExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var deleted int64
	for id, sess := range s.byID {
		if now.After(sess.ExpiresAt) {
			delete(s.byToken, sess.Token)
			delete(s.byID, id)
			deleted++
		}
	}
	return deleted, nil
}

// UpdateData applies fn to the stored session's Data under the store lock.
func (s *MemoryStore[Data]) UpdateData(ctx context.Context, id uuid.UUID, fn func(*Data)) (*Session[Data], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	fn(&sess.Data)
	sess.UpdatedAt = time.Now()

	cp := *sess
	return &cp, nil
}
