package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Context is the per-request handler context. It implements context.Context
// by delegating to the request's context, so it can be passed directly to
// anything that blocks.
type Context struct {
	w http.ResponseWriter
	r *http.Request
}

// NewContext creates a Context for the given request.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{w: w, r: r}
}

func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

func (c *Context) Err() error {
	return c.r.Context().Err()
}

func (c *Context) Value(key any) any {
	return c.r.Context().Value(key)
}

// Request returns the current request.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the response writer.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns a path parameter captured by the router.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.r, key)
}

// SetValue stores a value in the request's context.
func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

// SetContext replaces the request's context. Used by middleware that derives
// a cancellable context for the rest of the request.
func (c *Context) SetContext(ctx context.Context) {
	c.r = c.r.WithContext(ctx)
}
