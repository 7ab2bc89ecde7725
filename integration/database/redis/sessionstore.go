package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tallyboard/gateway/core/session"
)

// casRetries bounds the optimistic-concurrency loop in UpdateData. Conflicts
// only happen when parallel requests mutate the same session in the same
// moment, so a handful of retries is plenty.
const casRetries = 5

// SessionStore is the Redis-backed session.Store implementation used by
// multi-node deployments. Each session lives under two keys: the record
// itself under "{prefix}:{id}" and a token index under
// "{prefix}:token:{token}" so cookie lookups stay O(1). Both keys expire
// with the session, which makes Redis itself the primary expiry mechanism;
// DeleteExpired only sweeps leftovers.
type SessionStore[Data any] struct {
	client    *redis.Client
	prefix    string
	scanBatch int64
}

// StoreOption configures a SessionStore.
type StoreOption func(*storeOptions)

type storeOptions struct {
	prefix    string
	scanBatch int64
}

// WithKeyPrefix overrides the default "session" key prefix, letting several
// applications share one Redis database.
func WithKeyPrefix(prefix string) StoreOption {
	return func(o *storeOptions) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithScanBatchSize sets the SCAN page size used by DeleteExpired.
func WithScanBatchSize(n int) StoreOption {
	return func(o *storeOptions) {
		if n > 0 {
			o.scanBatch = int64(n)
		}
	}
}

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore[Data any](client *redis.Client, opts ...StoreOption) *SessionStore[Data] {
	o := storeOptions{prefix: "session", scanBatch: 1000}
	for _, opt := range opts {
		opt(&o)
	}
	return &SessionStore[Data]{
		client:    client,
		prefix:    o.prefix,
		scanBatch: o.scanBatch,
	}
}

// record is the persisted session shape. DeletedAt is intentionally absent:
// deleted sessions are removed, never stored.
type record[Data any] struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id,omitzero"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Data      Data      `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toRecord[Data any](sess *session.Session[Data]) record[Data] {
	return record[Data]{
		ID:        sess.ID,
		Token:     sess.Token,
		UserID:    sess.UserID,
		IP:        sess.IP,
		UserAgent: sess.UserAgent,
		Data:      sess.Data,
		ExpiresAt: sess.ExpiresAt,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
}

func (r record[Data]) session() session.Session[Data] {
	return session.Session[Data]{
		ID:        r.ID,
		Token:     r.Token,
		UserID:    r.UserID,
		IP:        r.IP,
		UserAgent: r.UserAgent,
		Data:      r.Data,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (s *SessionStore[Data]) key(id uuid.UUID) string {
	return s.prefix + ":" + id.String()
}

func (s *SessionStore[Data]) tokenKey(token string) string {
	return s.prefix + ":token:" + token
}

// GetByID retrieves a session by its stable identifier.
func (s *SessionStore[Data]) GetByID(ctx context.Context, id uuid.UUID) (*session.Session[Data], error) {
	return s.getByKey(ctx, s.key(id))
}

// GetByToken resolves the token index and loads the owning session. A stale
// index entry pointing at a rotated token reports not-found, the same as a
// missing session.
func (s *SessionStore[Data]) GetByToken(ctx context.Context, token string) (*session.Session[Data], error) {
	raw, err := s.client.Get(ctx, s.tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, session.ErrNotFound
	}

	sess, err := s.getByKey(ctx, s.key(id))
	if err != nil {
		return nil, err
	}
	if sess.Token != token {
		return nil, session.ErrNotFound
	}
	return sess, nil
}

func (s *SessionStore[Data]) getByKey(ctx context.Context, key string) (*session.Session[Data], error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	var rec record[Data]
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, err
	}

	sess := rec.session()
	return &sess, nil
}

// Save stores the session and its token index, reindexing when the token
// was rotated. Both keys expire together with the session.
func (s *SessionStore[Data]) Save(ctx context.Context, sess *session.Session[Data]) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return session.ErrExpired
	}

	payload, err := json.Marshal(toRecord(sess))
	if err != nil {
		return err
	}

	var prevToken string
	if prev, err := s.getByKey(ctx, s.key(sess.ID)); err == nil && prev.Token != sess.Token {
		prevToken = prev.Token
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(sess.ID), payload, ttl)
		pipe.Set(ctx, s.tokenKey(sess.Token), sess.ID.String(), ttl)
		if prevToken != "" {
			pipe.Del(ctx, s.tokenKey(prevToken))
		}
		return nil
	})
	return err
}

// Delete removes the session and its token index entry.
func (s *SessionStore[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	sess, err := s.getByKey(ctx, s.key(id))
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(id))
		pipe.Del(ctx, s.tokenKey(sess.Token))
		return nil
	})
	return err
}

// DeleteExpired sweeps session records whose payload outlived its TTL, which
// only happens after manual TTL changes or restores from persistence. Redis
// key expiry does the routine work.
func (s *SessionStore[Data]) DeleteExpired(ctx context.Context) (int64, error) {
	var deleted int64
	now := time.Now()

	iter := s.client.Scan(ctx, 0, s.prefix+":*", s.scanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		var rec record[Data]
		payload, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		if err := json.Unmarshal(payload, &rec); err != nil || rec.ID == uuid.Nil {
			// Token index entries and foreign payloads are skipped; their
			// owning record's sweep removes the index.
			continue
		}

		if now.After(rec.ExpiresAt) {
			if err := s.Delete(ctx, rec.ID); err == nil {
				deleted++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, err
	}
	return deleted, nil
}

// UpdateData applies fn to the stored session's Data under WATCH, giving
// the atomic read-modify-write the Store contract requires across nodes.
// Write conflicts restart the transaction up to casRetries times.
func (s *SessionStore[Data]) UpdateData(ctx context.Context, id uuid.UUID, fn func(*Data)) (*session.Session[Data], error) {
	key := s.key(id)
	var updated *session.Session[Data]

	txn := func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return session.ErrNotFound
			}
			return err
		}

		var rec record[Data]
		if err := json.Unmarshal(payload, &rec); err != nil {
			return err
		}

		fn(&rec.Data)
		rec.UpdatedAt = time.Now()

		ttl := time.Until(rec.ExpiresAt)
		if ttl <= 0 {
			return session.ErrNotFound
		}

		out, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, ttl)
			return nil
		}); err != nil {
			return err
		}

		sess := rec.session()
		updated = &sess
		return nil
	}

	for i := 0; i < casRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrConcurrentUpdate
}
