// Package handler defines the request-handling abstractions shared by the
// portal: a Response that renders lazily, a HandlerFunc that returns one, and
// Middleware that composes HandlerFuncs.
//
//	type Response func(w http.ResponseWriter, r *http.Request) error
//	type HandlerFunc func(ctx *Context) Response
//	type Middleware func(next HandlerFunc) HandlerFunc
//
// Because handlers return a Response instead of writing, middleware sees the
// outcome before anything reaches the client and can substitute it. The
// session middleware relies on this to turn a mid-request logout into a single
// redirect.
//
// Adapter bridges to net/http:
//
//	a := handler.NewAdapter(errorPage, middleware.RequestID(), middleware.Logging(log))
//	r.Get("/", a.Handle(home))
package handler
