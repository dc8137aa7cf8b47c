package response

import (
	"fmt"
	"net/http"

	"github.com/a-h/templ"

	"github.com/smcd-ma/portal/core/handler"
)

// Templ renders a templ component with 200 OK status.
// The component receives the request context, so it can read request-scoped
// values such as the session profile or the request ID.
func Templ(component templ.Component) handler.Response {
	return TemplWithStatus(component, http.StatusOK)
}

// TemplWithStatus renders a templ component with a custom status code.
func TemplWithStatus(component templ.Component, status int) handler.Response {
	if component == nil {
		return nil
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)

		if err := component.Render(r.Context(), w); err != nil {
			return fmt.Errorf("templ component render error: %w", err)
		}
		return nil
	}
}
