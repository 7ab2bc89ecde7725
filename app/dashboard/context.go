package dashboard

import (
	"context"
	"net/http"
	"time"
)

// Context is the request context used by all dashboard handlers. It
// delegates context.Context to the request's context, so values installed
// by one middleware stage are visible to the stages after it.
type Context struct {
	w http.ResponseWriter
	r *http.Request
}

func newContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{w: w, r: r}
}

func (c *Context) Deadline() (deadline time.Time, ok bool) { return c.r.Context().Deadline() }
func (c *Context) Done() <-chan struct{}                   { return c.r.Context().Done() }
func (c *Context) Err() error                              { return c.r.Context().Err() }
func (c *Context) Value(key any) any                       { return c.r.Context().Value(key) }

// Request returns the HTTP request associated with this context.
func (c *Context) Request() *http.Request { return c.r }

// ResponseWriter returns the HTTP response writer associated with this context.
func (c *Context) ResponseWriter() http.ResponseWriter { return c.w }

// SetValue stores a value in the request's context.
func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

// Param returns the value of the URL path parameter for the given key.
func (c *Context) Param(key string) string {
	return c.r.PathValue(key)
}
