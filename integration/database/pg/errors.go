package pg

import "errors"

// Domain-specific PostgreSQL errors for consistent error handling across the
// application. Use errors.Is() to check error types.
var (
	ErrFailedToOpenConnection  = errors.New("failed to open db connection")
	ErrEmptyConnectionString   = errors.New("empty postgres connection string, use PG_CONN_URL env var")
	ErrHealthcheckFailed       = errors.New("healthcheck failed, connection is not available")
	ErrFailedToParseConfig     = errors.New("failed to parse db config")
	ErrFailedToApplyMigrations = errors.New("failed to apply migrations")
)
