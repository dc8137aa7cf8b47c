package middleware

import (
	"net/http"

	"github.com/smcd-ma/portal/core/handler"
)

// withHeaders wraps resp so the given headers are set before it renders.
func withHeaders(resp handler.Response, set func(h http.Header)) handler.Response {
	if resp == nil {
		return nil
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		set(w.Header())
		return resp(w, r)
	}
}
