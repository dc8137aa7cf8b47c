package session

import "errors"

var (
	// ErrEmptyToken is returned by Store.Set when the token is empty.
	ErrEmptyToken = errors.New("session token is empty")
	// ErrRevoked is the cancellation cause of a request context whose session was cleared.
	ErrRevoked = errors.New("session revoked")
	// ErrProfileNotFound is returned by a ProfileCache that holds nothing for the token.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrMalformedProfile is returned by a ProfileCache whose stored value cannot be decoded.
	ErrMalformedProfile = errors.New("malformed cached profile")
	// ErrUnknownBackend is returned for an unsupported SESSION_BACKEND value.
	ErrUnknownBackend = errors.New("unknown profile cache backend")
	// ErrNoStore is returned when no Store is bound to a context.
	ErrNoStore = errors.New("no session store in context")
)
