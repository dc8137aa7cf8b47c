package form

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFailedToParseForm    = errors.New("failed to parse form")
	ErrInvalidTarget        = errors.New("target must be a non-nil pointer to struct")
)

// FieldError is one failed validation rule.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// ValidationErrors collects field errors in declaration order.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// StatusCode maps validation failures to 422.
func (v ValidationErrors) StatusCode() int {
	return http.StatusUnprocessableEntity
}

// Get returns the first message for field, matched on the form name.
func (v ValidationErrors) Get(field string) string {
	for _, e := range v {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// Has reports whether field failed.
func (v ValidationErrors) Has(field string) bool {
	return v.Get(field) != ""
}

// AsValidation extracts ValidationErrors from err.
func AsValidation(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	ok := errors.As(err, &ve)
	return ve, ok
}
