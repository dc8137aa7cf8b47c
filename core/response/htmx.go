package response

import "net/http"

// HTMX headers used by the portal.
const (
	HeaderHXRequest  = "HX-Request"
	HeaderHXRedirect = "HX-Redirect"
	HeaderHXTrigger  = "HX-Trigger"
)

// IsHTMX reports whether r was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HeaderHXRequest) == "true"
}
