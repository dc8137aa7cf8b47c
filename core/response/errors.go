package response

import (
	"errors"
	"net/http"

	"github.com/smcd-ma/portal/core/handler"
)

// HTTPError is a structured error response that implements the error interface.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithError returns a copy of the error carrying err as its cause.
func (e HTTPError) WithError(err error) HTTPError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details["cause"] = err.Error()
	e.Details = details
	return e
}

func newHTTPError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: http.StatusText(status)}
}

var (
	ErrBadRequest          = newHTTPError(http.StatusBadRequest, "bad_request")
	ErrUnauthorized        = newHTTPError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden           = newHTTPError(http.StatusForbidden, "forbidden")
	ErrNotFound            = newHTTPError(http.StatusNotFound, "not_found")
	ErrMethodNotAllowed    = newHTTPError(http.StatusMethodNotAllowed, "method_not_allowed")
	ErrRequestTooLarge     = newHTTPError(http.StatusRequestEntityTooLarge, "request_too_large")
	ErrUnprocessable       = newHTTPError(http.StatusUnprocessableEntity, "unprocessable_entity")
	ErrTooManyRequests     = newHTTPError(http.StatusTooManyRequests, "too_many_requests")
	ErrInternalServerError = newHTTPError(http.StatusInternalServerError, "internal_server_error")
	ErrBadGateway          = newHTTPError(http.StatusBadGateway, "bad_gateway")
	ErrServiceUnavailable  = newHTTPError(http.StatusServiceUnavailable, "service_unavailable")
	ErrGatewayTimeout      = newHTTPError(http.StatusGatewayTimeout, "gateway_timeout")
)

var httpErrorsByStatus = map[int]HTTPError{
	http.StatusBadRequest:            ErrBadRequest,
	http.StatusUnauthorized:          ErrUnauthorized,
	http.StatusForbidden:             ErrForbidden,
	http.StatusNotFound:              ErrNotFound,
	http.StatusMethodNotAllowed:      ErrMethodNotAllowed,
	http.StatusRequestEntityTooLarge: ErrRequestTooLarge,
	http.StatusUnprocessableEntity:   ErrUnprocessable,
	http.StatusTooManyRequests:       ErrTooManyRequests,
	http.StatusInternalServerError:   ErrInternalServerError,
	http.StatusBadGateway:            ErrBadGateway,
	http.StatusServiceUnavailable:    ErrServiceUnavailable,
	http.StatusGatewayTimeout:        ErrGatewayTimeout,
}

type statusCoder interface {
	StatusCode() int
}

// ToHTTPError converts any error to an HTTPError. Errors exposing a
// StatusCode method map onto the matching predefined error; everything else
// becomes a 500.
func ToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCoder
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	base, ok := httpErrorsByStatus[status]
	if !ok {
		base = ErrInternalServerError
	}
	return base.WithError(err)
}

// Error returns a Response that propagates err to the adapter's error handler.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}

// ErrorHandler writes errors as plain text. It satisfies handler.ErrorHandler.
func ErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := ToHTTPError(err)
	_ = StringWithStatus(httpErr.Error(), httpErr.Status)(w, r)
}

// JSONErrorHandler writes errors as JSON. It satisfies handler.ErrorHandler.
func JSONErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := ToHTTPError(err)
	_ = JSONWithStatus(httpErr, httpErr.Status)(w, r)
}
