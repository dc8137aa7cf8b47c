package session

import (
	"context"
	"errors"
)

type ctxKey struct{}

// FromContext returns the Store bound to ctx.
func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	return s, ok && s != nil
}

// Revoked reports whether ctx was cancelled because its session was cleared.
func Revoked(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrRevoked)
}
