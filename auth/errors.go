package auth

import "errors"

var (
	// ErrUserNotFound is returned when resolving a user id that no longer
	// maps to an active user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when a password check fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnknownRole is returned when parsing an unrecognized role name.
	ErrUnknownRole = errors.New("unknown role")
)
