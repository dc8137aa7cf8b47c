package middleware

import (
	"net/http"

	"github.com/smcd-ma/portal/core/handler"
	"github.com/smcd-ma/portal/core/response"
)

// BodyLimit rejects requests whose declared length exceeds maxSize
// and caps the body reader at maxSize for the rest.
func BodyLimit(maxSize int64) handler.Middleware {
	if maxSize <= 0 {
		maxSize = 4 << 20
	}

	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx *handler.Context) handler.Response {
			req := ctx.Request()

			if req.ContentLength > maxSize {
				return response.Error(response.ErrRequestTooLarge.WithMessage(
					"Le fichier dépasse la taille maximale autorisée."))
			}

			if req.Body != nil {
				req.Body = http.MaxBytesReader(ctx.ResponseWriter(), req.Body, maxSize)
			}
			return next(ctx)
		}
	}
}
