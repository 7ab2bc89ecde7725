package handler

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrNilResponse is returned when a handler produces no response to render.
var ErrNilResponse = errors.New("handler returned nil response")

// ContextFactory builds the custom context for each request.
type ContextFactory[C Context] func(w http.ResponseWriter, r *http.Request) C

// ServeOption configures the http.Handler built by Serve.
type ServeOption[C Context] func(*pipeline[C])

// WithErrorHandler overrides the default error handler used when a response
// fails to render or a handler returns nil.
func WithErrorHandler[C Context](eh ErrorHandler[C]) ServeOption[C] {
	return func(p *pipeline[C]) {
		if eh != nil {
			p.errorHandler = eh
		}
	}
}

// Serve mounts an endpoint with its middleware stack as a standard
// http.Handler. The factory builds a fresh typed context per request, the
// middlewares run in declaration order, and the endpoint's Response renders
// the reply.
func Serve[C Context](factory ContextFactory[C], endpoint HandlerFunc[C], middlewares ...Middleware[C]) http.Handler {
	return ServeWith(factory, endpoint, nil, middlewares...)
}

// ServeWith is Serve with additional options.
func ServeWith[C Context](factory ContextFactory[C], endpoint HandlerFunc[C], opts []ServeOption[C], middlewares ...Middleware[C]) http.Handler {
	if factory == nil {
		panic("handler: context factory is required")
	}
	if endpoint == nil {
		panic("handler: endpoint is required")
	}

	p := &pipeline[C]{
		handler:      Chain(middlewares, endpoint),
		factory:      factory,
		errorHandler: defaultErrorHandler[C],
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type pipeline[C Context] struct {
	handler      HandlerFunc[C]
	factory      ContextFactory[C]
	errorHandler ErrorHandler[C]
}

func (p *pipeline[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := p.factory(w, r)

	resp := p.handler(ctx)
	if resp == nil {
		p.errorHandler(ctx, ErrNilResponse)
		return
	}

	if err := resp(w, r); err != nil {
		p.errorHandler(ctx, err)
	}
}

// statusCoder lets structured errors carry their own HTTP status.
type statusCoder interface {
	StatusCode() int
}

func defaultErrorHandler[C Context](ctx C, err error) {
	w := ctx.ResponseWriter()

	var sc statusCoder
	if errors.As(err, &sc) {
		http.Error(w, err.Error(), sc.StatusCode())
		return
	}

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// NewContext returns the default Context implementation, delegating all
// context.Context methods to the request's context. SetValue rebinds the
// request with an augmented context so values installed by one pipeline
// stage are visible to the stages after it.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return &baseContext{w: w, r: r}
}

type baseContext struct {
	w http.ResponseWriter
	r *http.Request
}

func (c *baseContext) Deadline() (deadline time.Time, ok bool) { return c.r.Context().Deadline() }
func (c *baseContext) Done() <-chan struct{}                   { return c.r.Context().Done() }
func (c *baseContext) Err() error                              { return c.r.Context().Err() }
func (c *baseContext) Value(key any) any                       { return c.r.Context().Value(key) }

func (c *baseContext) Request() *http.Request              { return c.r }
func (c *baseContext) ResponseWriter() http.ResponseWriter { return c.w }

func (c *baseContext) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}
