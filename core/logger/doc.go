// Package logger provides structured logging built on Go's standard slog.
//
// New builds the process logger from environment configuration (LOG_LEVEL,
// LOG_FORMAT), and NewDiscard gives middleware a safe default so logging
// stays opt-in. The attribute helpers (Error, Group, Duration, Component)
// are nil-safe and keep call sites terse.
package logger
