package sessiontransport

import "errors"

// ErrSessionExpired is returned when attempting to write a cookie for a
// session whose expiration has already passed.
var ErrSessionExpired = errors.New("cannot store expired session")
