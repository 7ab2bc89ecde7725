package tenant

import (
	"github.com/google/uuid"

	"github.com/tallyboard/gateway/pkg/slug"
)

// Company identifies a tenant: the stable id, the URL slug derived from the
// display name, and the display name itself.
type Company struct {
	ID   uuid.UUID
	Slug string
	Name string
}

// NewCompany builds a Company with its slug derived from the display name
// through the canonical normalization. Links and path parsing both go
// through the same function, so a company is always addressable by exactly
// one slug.
func NewCompany(id uuid.UUID, name string) Company {
	return Company{
		ID:   id,
		Slug: slug.Make(name),
		Name: name,
	}
}

// IsZero reports whether the company is the zero value.
func (c Company) IsZero() bool {
	return c.ID == uuid.Nil
}
