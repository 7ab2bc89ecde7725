package handler

import (
	"context"
	"net/http"
)

// Context defines the contract for request contexts in the gateway.
// It extends context.Context with access to the underlying HTTP exchange
// and a scoped key/value store for passing request-derived state (session,
// principal, resolved company) between pipeline stages.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	SetValue(key, val any)
}
