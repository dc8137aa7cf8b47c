package handler

import (
	"net/http"
	"slices"
)

// Response renders an HTTP response. Handlers build a Response and return it;
// nothing is written until the adapter executes it, which lets middleware
// replace or decorate the response after the handler ran.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc handles a request and returns the Response to render.
type HandlerFunc func(ctx *Context) Response

// ErrorHandler renders an error returned by a Response.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain applies middlewares so the first one is the outermost.
func Chain(h HandlerFunc, middlewares ...Middleware) HandlerFunc {
	for _, mw := range slices.Backward(middlewares) {
		h = mw(h)
	}
	return h
}

// Adapter turns HandlerFuncs into http.HandlerFuncs, applying a shared
// middleware stack and error handler.
type Adapter struct {
	errorHandler ErrorHandler
	middlewares  []Middleware
}

// NewAdapter creates an Adapter. A nil errorHandler falls back to
// DefaultErrorHandler.
func NewAdapter(errorHandler ErrorHandler, middlewares ...Middleware) *Adapter {
	if errorHandler == nil {
		errorHandler = DefaultErrorHandler
	}
	return &Adapter{
		errorHandler: errorHandler,
		middlewares:  middlewares,
	}
}

// With returns a new Adapter whose stack is a's stack followed by middlewares.
func (a *Adapter) With(middlewares ...Middleware) *Adapter {
	return &Adapter{
		errorHandler: a.errorHandler,
		middlewares:  append(slices.Clone(a.middlewares), middlewares...),
	}
}

// Handle adapts h to net/http.
func (a *Adapter) Handle(h HandlerFunc) http.HandlerFunc {
	h = Chain(h, a.middlewares...)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(w, r)

		resp := h(ctx)
		if resp == nil {
			return
		}

		if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
			a.errorHandler(ctx.ResponseWriter(), ctx.Request(), err)
		}
	}
}

// statusCoder is implemented by errors that carry an HTTP status.
type statusCoder interface {
	StatusCode() int
}

// DefaultErrorHandler writes the error message as plain text, using the
// error's status code when it has one.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if sc, ok := err.(statusCoder); ok && sc.StatusCode() >= 400 {
		status = sc.StatusCode()
	}
	http.Error(w, err.Error(), status)
}
