// Package handler defines the request-handling contract shared by the
// gateway's pipeline stages.
//
// Handlers are functions from a typed request context to a Response, and
// middleware wraps handlers to add cross-cutting behavior. The Context
// interface carries the HTTP exchange plus a request-scoped key/value store
// that stages use to hand resolved state (session, principal, company) to
// the stages after them.
//
// # Composing a pipeline
//
//	h := handler.Serve(handler.NewContext, endpoint,
//		middleware.Session[handler.Context, tenant.SessionData](transport),
//		middleware.Auth[handler.Context, tenant.SessionData](resolver),
//		middleware.Tenant[handler.Context](directory, sessions),
//		policyStage,
//	)
//	mux.Handle("/", h)
//
// Custom context types embed extra dependencies; implement Context and pass
// your own factory to Serve.
package handler
