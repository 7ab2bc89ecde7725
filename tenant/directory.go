package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Directory is the company-directory collaborator: it answers who a slug
// belongs to and which companies a user may act for. Implementations wrap
// the persistence layer; the Postgres-backed one lives in
// integration/database/pg and MemoryDirectory serves tests and development.
type Directory interface {
	// FindBySlug resolves a canonical slug to a company.
	// Returns ErrCompanyNotFound for unknown slugs.
	FindBySlug(ctx context.Context, slug string) (Company, error)

	// HasAccess reports whether the user is assigned to the company.
	// Super-admin bypass is not applied here; that is the caller's concern.
	HasAccess(ctx context.Context, userID, companyID uuid.UUID) (bool, error)

	// AccessibleCompanies lists the companies the user is assigned to,
	// ordered deterministically by display name (ties broken by id) so
	// fallback selection is stable across requests. With includeAll set the
	// listing covers every company regardless of assignment; callers pass it
	// for super-admin principals, whose access is not grant-based.
	AccessibleCompanies(ctx context.Context, userID uuid.UUID, includeAll bool) ([]Company, error)
}
