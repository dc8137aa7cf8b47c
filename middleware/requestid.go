package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/smcd-ma/portal/core/handler"
)

type requestIDContextKey struct{}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx *handler.Context) bool
	// Generator creates new request IDs (default: UUID v4)
	Generator func() string
	// HeaderName is the request/response header (default: "X-Request-ID")
	HeaderName string
	// UseExisting reuses an incoming request ID
	UseExisting bool
}

// RequestID assigns a UUID to each request and echoes it in the response.
func RequestID() handler.Middleware {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig creates a request ID middleware with custom configuration.
func RequestIDWithConfig(cfg RequestIDConfig) handler.Middleware {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string {
			return uuid.New().String()
		}
	}

	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx *handler.Context) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			var requestID string
			if cfg.UseExisting {
				requestID = ctx.Request().Header.Get(cfg.HeaderName)
			}
			if requestID == "" {
				requestID = cfg.Generator()
			}

			ctx.SetValue(requestIDContextKey{}, requestID)

			return withHeaders(next(ctx), func(h http.Header) {
				h.Set(cfg.HeaderName, requestID)
			})
		}
	}
}

// GetRequestID returns the request ID stored in ctx.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok
}
