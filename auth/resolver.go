package auth

import (
	"context"

	"github.com/google/uuid"
)

// Resolver resolves the authenticated principal for a user id.
// Implementations wrap the user store; the Postgres-backed one lives in
// integration/database/pg. Resolve returns ErrUserNotFound for unknown or
// deactivated users; infrastructure failures are the implementation's own
// errors, which callers treat as anonymous.
type Resolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (Principal, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, userID uuid.UUID) (Principal, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx context.Context, userID uuid.UUID) (Principal, error) {
	return f(ctx, userID)
}
