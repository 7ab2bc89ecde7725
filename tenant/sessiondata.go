package tenant

import "github.com/google/uuid"

// SessionData is the custom session payload the gateway stores per browser
// session. CompanyID is the caller's selected company; uuid.Nil means no
// selection yet.
//
// Invariant: when set, CompanyID refers to a company the session's user can
// access (or the user is a super-admin). Login resets the payload, explicit
// selection validates before writing, and the tenant middleware
// auto-corrects the field whenever the URL proves it stale.
type SessionData struct {
	CompanyID uuid.UUID `json:"company_id,omitzero"`
}

// HasSelection reports whether a company has been selected.
func (d SessionData) HasSelection() bool {
	return d.CompanyID != uuid.Nil
}
