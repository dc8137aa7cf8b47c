package apiclient

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/smcd-ma/portal/core/session"
)

var (
	// ErrCredentialRejected marks a credentialed call answered with 401.
	// The session has already been torn down when a caller sees it.
	ErrCredentialRejected = errors.New("credential rejected")
	// ErrSessionRevoked is returned by calls aborted because the session was
	// cleared while they were in flight.
	ErrSessionRevoked = session.ErrRevoked
)

// Error is a non-2xx response from the remote API.
type Error struct {
	Status  int
	Message string

	rejected bool
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
}

// StatusCode returns the remote status.
func (e *Error) StatusCode() int {
	return e.Status
}

func (e *Error) Unwrap() error {
	if e.rejected {
		return ErrCredentialRejected
	}
	return nil
}

// NetworkError is a call that got no response at all.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("api: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the call ran out of time.
func (e *NetworkError) Timeout() bool {
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// StatusCode maps network failures to 502 for error pages.
func (e *NetworkError) StatusCode() int {
	if e.Timeout() {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

// IsNetwork reports whether err is a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// StatusOf returns the remote status carried by err, or 0.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}
