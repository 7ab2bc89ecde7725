package session

import "errors"

// Sentinels shared by the manager, the transport, and every Store
// implementation; stores translate backend-specific failures into these so
// callers can branch with errors.Is.
var (
	// ErrNotFound means no session exists for the id or token. Stores also
	// return it for records whose secondary index outlived the record.
	ErrNotFound = errors.New("session not found")
	// ErrExpired marks a session past its ExpiresAt; stores refuse to
	// persist one.
	ErrExpired = errors.New("session has expired")
	// ErrNotAuthenticated signals a destroyed or guest-only session. The
	// cookie transport reacts by minting a fresh anonymous session.
	ErrNotAuthenticated = errors.New("authentication failed")
	// ErrMissingIP rejects creating a session without a client address;
	// the transport always captures one.
	ErrMissingIP = errors.New("IP address is required")
	// ErrTokenGeneration wraps a failure of the random token source.
	ErrTokenGeneration = errors.New("failed to generate token")
	// ErrSaveSession wraps store write failures.
	ErrSaveSession = errors.New("failed to save session")
	// ErrDeleteSession wraps store delete failures.
	ErrDeleteSession = errors.New("failed to delete session")
)
