package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Manager handles session lifecycle including creation, retrieval, and
// expiration. The touch interval determines how often sessions are
// automatically extended on access, reducing write operations to the store.
type Manager[Data any] struct {
	store         Store[Data]
	ttl           time.Duration
	touchInterval time.Duration
}

// NewManager creates a session manager backed by the given store.
func NewManager[Data any](store Store[Data], opts ...Option) *Manager[Data] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Manager[Data]{
		store:         store,
		ttl:           cfg.TTL,
		touchInterval: cfg.TouchInterval,
	}
}

// NewFromConfig creates a session manager from environment configuration.
// Only non-zero config values override the defaults.
func NewFromConfig[Data any](cfg Config, store Store[Data], opts ...Option) *Manager[Data] {
	base := make([]Option, 0, 2+len(opts))
	if cfg.TTL > 0 {
		base = append(base, WithTTL(cfg.TTL))
	}
	if cfg.TouchInterval > 0 {
		base = append(base, WithTouchInterval(cfg.TouchInterval))
	}
	return NewManager(store, append(base, opts...)...)
}

// New creates a new anonymous session. The session is not persisted until
// it passes through Store; transports call New when a request carries no
// valid session cookie.
func (m *Manager[Data]) New(params NewSessionParams) (Session[Data], error) {
	return New[Data](params, m.ttl)
}

// GetByID retrieves a session by ID and validates expiration.
func (m *Manager[Data]) GetByID(ctx context.Context, id uuid.UUID) (Session[Data], error) {
	sess, err := m.store.GetByID(ctx, id)
	if err != nil {
		return Session[Data]{}, err
	}

	if sess.IsExpired() {
		return Session[Data]{}, ErrExpired
	}

	return *sess, nil
}

// GetByToken retrieves a session by token and validates expiration.
func (m *Manager[Data]) GetByToken(ctx context.Context, token string) (Session[Data], error) {
	sess, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return Session[Data]{}, err
	}

	if sess.IsExpired() {
		return Session[Data]{}, ErrExpired
	}

	return *sess, nil
}

// Authenticate binds the session to the given user, rotating the token and
// resetting session data, then persists the result.
func (m *Manager[Data]) Authenticate(ctx context.Context, sess Session[Data], userID uuid.UUID) (Session[Data], error) {
	if err := sess.Authenticate(userID); err != nil {
		return Session[Data]{}, err
	}
	if err := m.store.Save(ctx, &sess); err != nil {
		return Session[Data]{}, errors.Join(ErrSaveSession, err)
	}
	return sess, nil
}

// Logout deletes the current session and returns a fresh anonymous one
// carrying over the request attributes.
func (m *Manager[Data]) Logout(ctx context.Context, sess Session[Data]) (Session[Data], error) {
	if err := m.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return Session[Data]{}, errors.Join(ErrDeleteSession, err)
	}
	return m.New(NewSessionParams{IP: sess.IP, UserAgent: sess.UserAgent})
}

// Store handles all session persistence based on session state.
// When a session is deleted, returns ErrNotAuthenticated to signal the
// transport to clean up the cookie.
func (m *Manager[Data]) Store(ctx context.Context, sess Session[Data]) error {
	if sess.IsDeleted() {
		if err := m.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return errors.Join(ErrDeleteSession, err)
		}
		return ErrNotAuthenticated
	}

	sess.Touch(m.ttl, m.touchInterval)

	if sess.IsModified() {
		return m.store.Save(ctx, &sess)
	}

	return nil
}

// UpdateData atomically applies fn to the persisted session's Data and then
// mirrors the stored result into the in-memory copy. Use this for fields
// that parallel requests may race on, such as the selected company.
func (m *Manager[Data]) UpdateData(ctx context.Context, sess *Session[Data], fn func(*Data)) error {
	updated, err := m.store.UpdateData(ctx, sess.ID, fn)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Session not persisted yet: mutate the local copy; the
			// middleware will save it at the end of the request.
			fn(&sess.Data)
			sess.UpdatedAt = time.Now()
			sess.isModified = true
			return nil
		}
		return err
	}

	sess.Data = updated.Data
	sess.UpdatedAt = updated.UpdatedAt
	return nil
}

// CleanupExpired removes all expired sessions from the store.
// Should be called periodically to prevent session store growth.
func (m *Manager[Data]) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx)
}

// TTL returns the session time-to-live duration.
func (m *Manager[Data]) TTL() time.Duration {
	return m.ttl
}
