package tenant

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryDirectory is an in-memory Directory for tests and development.
type MemoryDirectory struct {
	mu        sync.RWMutex
	bySlug    map[string]Company
	grants    map[uuid.UUID]map[uuid.UUID]struct{} // userID -> companyIDs
	companies map[uuid.UUID]Company
}

// NewMemoryDirectory creates an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		bySlug:    make(map[string]Company),
		grants:    make(map[uuid.UUID]map[uuid.UUID]struct{}),
		companies: make(map[uuid.UUID]Company),
	}
}

// AddCompany registers a company under its derived slug and returns it.
func (d *MemoryDirectory) AddCompany(name string) Company {
	d.mu.Lock()
	defer d.mu.Unlock()

	c := NewCompany(uuid.New(), name)
	d.bySlug[c.Slug] = c
	d.companies[c.ID] = c
	return c
}

// Grant assigns the user to the company.
func (d *MemoryDirectory) Grant(userID, companyID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.grants[userID] == nil {
		d.grants[userID] = make(map[uuid.UUID]struct{})
	}
	d.grants[userID][companyID] = struct{}{}
}

// Revoke removes the user's assignment to the company.
func (d *MemoryDirectory) Revoke(userID, companyID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.grants[userID], companyID)
}

// FindBySlug implements Directory.
func (d *MemoryDirectory) FindBySlug(ctx context.Context, slug string) (Company, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.bySlug[slug]
	if !ok {
		return Company{}, ErrCompanyNotFound
	}
	return c, nil
}

// HasAccess implements Directory.
func (d *MemoryDirectory) HasAccess(ctx context.Context, userID, companyID uuid.UUID) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.grants[userID][companyID]
	return ok, nil
}

// AccessibleCompanies implements Directory, sorted by display name with id
// as tie-breaker.
func (d *MemoryDirectory) AccessibleCompanies(ctx context.Context, userID uuid.UUID, includeAll bool) ([]Company, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var companies []Company
	if includeAll {
		companies = make([]Company, 0, len(d.companies))
		for _, c := range d.companies {
			companies = append(companies, c)
		}
	} else {
		companies = make([]Company, 0, len(d.grants[userID]))
		for id := range d.grants[userID] {
			if c, ok := d.companies[id]; ok {
				companies = append(companies, c)
			}
		}
	}

	sort.Slice(companies, func(i, j int) bool {
		ni, nj := strings.ToLower(companies[i].Name), strings.ToLower(companies[j].Name)
		if ni != nj {
			return ni < nj
		}
		return companies[i].ID.String() < companies[j].ID.String()
	})
	return companies, nil
}
