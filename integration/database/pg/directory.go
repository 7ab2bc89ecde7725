package pg

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyboard/gateway/auth"
	"github.com/tallyboard/gateway/tenant"
)

// Directory is the PostgreSQL implementation of tenant.Directory and
// auth.Resolver. It is deliberately read-only with respect to access
// decisions: membership and roles are written through Accounts, and every
// request re-reads them so revocations take effect on the next navigation.
type Directory struct {
	pool *pgxpool.Pool
}

// NewDirectory creates a Directory backed by the given pool.
func NewDirectory(pool *pgxpool.Pool) *Directory {
	return &Directory{pool: pool}
}

// FindBySlug resolves a URL slug to a company.
func (d *Directory) FindBySlug(ctx context.Context, slug string) (tenant.Company, error) {
	var c tenant.Company
	err := querierFrom(ctx, d.pool).QueryRow(ctx,
		`SELECT id, slug, name FROM companies WHERE slug = $1`,
		slug,
	).Scan(&c.ID, &c.Slug, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tenant.Company{}, tenant.ErrCompanyNotFound
		}
		return tenant.Company{}, err
	}
	return c, nil
}

// HasAccess reports whether the user is a member of the company.
func (d *Directory) HasAccess(ctx context.Context, userID, companyID uuid.UUID) (bool, error) {
	var ok bool
	err := querierFrom(ctx, d.pool).QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM company_users WHERE user_id = $1 AND company_id = $2
		)`,
		userID, companyID,
	).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// AccessibleCompanies lists the user's companies ordered by display name,
// or every company when includeAll is set (super-admin principals). The ID
// tie-break keeps the order stable for same-named companies, which matters
// because the first entry is the fallback redirect target.
func (d *Directory) AccessibleCompanies(ctx context.Context, userID uuid.UUID, includeAll bool) ([]tenant.Company, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if includeAll {
		rows, err = querierFrom(ctx, d.pool).Query(ctx,
			`SELECT id, slug, name
			 FROM companies
			 ORDER BY lower(name), id`,
		)
	} else {
		rows, err = querierFrom(ctx, d.pool).Query(ctx,
			`SELECT c.id, c.slug, c.name
			 FROM companies c
			 JOIN company_users cu ON cu.company_id = c.id
			 WHERE cu.user_id = $1
			 ORDER BY lower(c.name), c.id`,
			userID,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []tenant.Company
	for rows.Next() {
		var c tenant.Company
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// Resolve builds the principal for a user id: existence check plus role
// lookup. Roles the application no longer knows are ignored rather than
// failing the whole login.
func (d *Directory) Resolve(ctx context.Context, userID uuid.UUID) (auth.Principal, error) {
	q := querierFrom(ctx, d.pool)

	var exists bool
	if err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID,
	).Scan(&exists); err != nil {
		return auth.Principal{}, err
	}
	if !exists {
		return auth.Principal{}, auth.ErrUserNotFound
	}

	rows, err := q.Query(ctx,
		`SELECT role FROM user_roles WHERE user_id = $1`, userID,
	)
	if err != nil {
		return auth.Principal{}, err
	}
	defer rows.Close()

	var roles auth.Roles
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return auth.Principal{}, err
		}
		if role, err := auth.ParseRole(raw); err == nil {
			roles = roles.With(role)
		}
	}
	if err := rows.Err(); err != nil {
		return auth.Principal{}, err
	}

	return auth.Principal{UserID: userID, Roles: roles}, nil
}
