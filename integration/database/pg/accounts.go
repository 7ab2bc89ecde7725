package pg

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyboard/gateway/auth"
	"github.com/tallyboard/gateway/tenant"
)

// ErrEmailTaken is returned when registering with an address that already
// has an account.
var ErrEmailTaken = errors.New("email address is already registered")

// ErrSlugTaken is returned when a company name normalizes to a slug that is
// already in use.
var ErrSlugTaken = errors.New("company slug is already in use")

// ErrInvalidCompanyName is returned when a company name normalizes to an
// empty slug and therefore cannot appear in URLs.
var ErrInvalidCompanyName = errors.New("company name yields an empty slug")

// Accounts is the write side of the user and company model: registration,
// credential checks, role assignment, and membership management. The read
// side used on every request lives in Directory.
type Accounts struct {
	pool *pgxpool.Pool
}

// NewAccounts creates an Accounts repository backed by the given pool.
func NewAccounts(pool *pgxpool.Pool) *Accounts {
	return &Accounts{pool: pool}
}

// CreateUser registers a user with a bcrypt-hashed password and returns the
// new user id.
func (a *Accounts) CreateUser(ctx context.Context, email, password string) (uuid.UUID, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	_, err = querierFrom(ctx, a.pool).Exec(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
		id, strings.ToLower(strings.TrimSpace(email)), hash,
	)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return uuid.Nil, ErrEmailTaken
		}
		return uuid.Nil, err
	}
	return id, nil
}

// AuthenticateByEmail verifies the credentials and returns the user id.
// Unknown addresses and wrong passwords both report ErrInvalidCredentials
// so responses cannot be used to probe for accounts.
func (a *Accounts) AuthenticateByEmail(ctx context.Context, email, password string) (uuid.UUID, error) {
	var (
		id   uuid.UUID
		hash string
	)
	err := querierFrom(ctx, a.pool).QueryRow(ctx,
		`SELECT id, password_hash FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, auth.ErrInvalidCredentials
		}
		return uuid.Nil, err
	}

	if err := auth.VerifyPassword(hash, password); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// AssignRole grants a role to a user. Assigning an already held role is a
// no-op.
func (a *Accounts) AssignRole(ctx context.Context, userID uuid.UUID, role auth.Role) error {
	_, err := querierFrom(ctx, a.pool).Exec(ctx,
		`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		userID, role.String(),
	)
	return err
}

// RevokeRole removes a role from a user.
func (a *Accounts) RevokeRole(ctx context.Context, userID uuid.UUID, role auth.Role) error {
	_, err := querierFrom(ctx, a.pool).Exec(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role = $2`,
		userID, role.String(),
	)
	return err
}

// CreateCompany registers a company under the slug derived from its name.
func (a *Accounts) CreateCompany(ctx context.Context, name string) (tenant.Company, error) {
	company := tenant.NewCompany(uuid.New(), name)
	if company.Slug == "" {
		return tenant.Company{}, ErrInvalidCompanyName
	}

	_, err := querierFrom(ctx, a.pool).Exec(ctx,
		`INSERT INTO companies (id, slug, name) VALUES ($1, $2, $3)`,
		company.ID, company.Slug, company.Name,
	)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return tenant.Company{}, ErrSlugTaken
		}
		return tenant.Company{}, err
	}
	return company, nil
}

// Grant makes the user a member of the company. Granting an existing
// membership is a no-op.
func (a *Accounts) Grant(ctx context.Context, userID, companyID uuid.UUID) error {
	_, err := querierFrom(ctx, a.pool).Exec(ctx,
		`INSERT INTO company_users (company_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		companyID, userID,
	)
	return err
}

// Revoke removes the user's membership. The user's sessions are untouched;
// the next company-scoped request reconciles them against the directory.
func (a *Accounts) Revoke(ctx context.Context, userID, companyID uuid.UUID) error {
	_, err := querierFrom(ctx, a.pool).Exec(ctx,
		`DELETE FROM company_users WHERE company_id = $1 AND user_id = $2`,
		companyID, userID,
	)
	return err
}
