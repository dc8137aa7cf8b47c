package middleware

import (
	"context"

	"github.com/smcd-ma/portal/core/handler"
	"github.com/smcd-ma/portal/pkg/clientip"
)

type clientIPContextKey struct{}

// ClientIP stores the client IP in the request context.
func ClientIP() handler.Middleware {
	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx *handler.Context) handler.Response {
			ctx.SetValue(clientIPContextKey{}, clientip.GetIP(ctx.Request()))
			return next(ctx)
		}
	}
}

// GetClientIP returns the client IP stored in ctx.
func GetClientIP(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPContextKey{}).(string)
	return ip, ok
}
