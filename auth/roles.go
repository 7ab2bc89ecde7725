package auth

import "fmt"

// Role is a distinct privilege tier a user can hold.
type Role uint8

const (
	// RoleUser grants access to the companies the user is assigned to.
	RoleUser Role = iota + 1
	// RoleAdmin grants access to the administrative area.
	RoleAdmin
	// RoleSuperAdmin grants unrestricted access to every company and the
	// super-admin area.
	RoleSuperAdmin
)

// String implements fmt.Stringer. Also the canonical storage form.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	case RoleSuperAdmin:
		return "superadmin"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// ParseRole converts the storage form back to a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "user":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	case "superadmin":
		return RoleSuperAdmin, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Roles is a set of roles implemented as a bitmask. The zero value is the
// empty set, which is what an anonymous principal carries.
type Roles uint8

// NewRoles builds a set from individual roles.
func NewRoles(roles ...Role) Roles {
	var set Roles
	for _, r := range roles {
		set = set.With(r)
	}
	return set
}

// With returns the set including r.
func (s Roles) With(r Role) Roles {
	return s | Roles(1)<<r
}

// Has reports whether the set contains exactly r, with no hierarchy applied.
func (s Roles) Has(r Role) bool {
	return s&(Roles(1)<<r) != 0
}

// IsEmpty reports whether the set holds no roles at all.
func (s Roles) IsEmpty() bool {
	return s == 0
}
