package tenant

import "errors"

// ErrCompanyNotFound is returned when a slug or id does not resolve to a
// known company.
var ErrCompanyNotFound = errors.New("company not found")
