package auth

import "github.com/google/uuid"

// Principal is the resolved identity and role set for the current request.
// It is derived fresh per request from the session's user binding and never
// cached across requests, because role membership can change mid-session.
type Principal struct {
	UserID uuid.UUID
	Roles  Roles
}

// Anonymous returns the principal installed when no authenticated user can
// be resolved. It holds no capabilities, so downstream checks need no nil
// branch.
func Anonymous() Principal {
	return Principal{}
}

// IsAuthenticated reports whether the principal belongs to a real user.
func (p Principal) IsAuthenticated() bool {
	return p.UserID != uuid.Nil
}

// IsSuperAdmin reports whether the principal holds the super-admin role.
func (p Principal) IsSuperAdmin() bool {
	return p.Roles.Has(RoleSuperAdmin)
}

// IsAdmin reports whether the principal holds admin-tier privileges.
// Super-admins implicitly pass: the tiers are checked independently and
// unioned rather than relying on the resolver to encode a hierarchy.
func (p Principal) IsAdmin() bool {
	return p.Roles.Has(RoleAdmin) || p.Roles.Has(RoleSuperAdmin)
}
