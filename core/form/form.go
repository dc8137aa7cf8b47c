package form

import "net/http"

// Parse binds, sanitizes and validates the request form into v.
// Validation failures are returned as ValidationErrors.
func Parse(r *http.Request, v any) error {
	if err := Bind(r, v); err != nil {
		return err
	}
	if err := Sanitize(v); err != nil {
		return err
	}
	return Validate(v)
}
