package cookie

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSecret indicates no secret was provided for signing/encryption.
	ErrNoSecret = errors.New("cookie: no secret provided")

	// ErrSecretTooShort indicates a secret shorter than 32 characters.
	ErrSecretTooShort = errors.New("cookie: secret must be at least 32 characters long")

	// ErrInvalidSignature indicates a signed value was tampered with or signed
	// by an unknown key.
	ErrInvalidSignature = errors.New("cookie: signature verification failed")

	// ErrDecryptionFailed indicates no configured key could open the value.
	ErrDecryptionFailed = errors.New("cookie: failed to decrypt value")

	// ErrCookieNotFound indicates the requested cookie is not in the request.
	ErrCookieNotFound = errors.New("cookie: not found in request")

	// ErrInvalidFormat indicates an undecodable cookie value.
	ErrInvalidFormat = errors.New("cookie: invalid format")
)

// ErrCookieTooLarge indicates the serialized cookie exceeds the maximum size.
type ErrCookieTooLarge struct {
	Name string
	Size int
	Max  int
}

func (e ErrCookieTooLarge) Error() string {
	return fmt.Sprintf("cookie %q size %d exceeds maximum %d bytes", e.Name, e.Size, e.Max)
}
