package authclient

import (
	"errors"

	"github.com/smcd-ma/portal/core/session"
)

var (
	// ErrInvalidCredentials means the service refused the email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnavailable means the service could not be reached or failed.
	ErrUnavailable = errors.New("authentication service unavailable")
	// ErrDenied means verification failed and the session was torn down.
	ErrDenied = errors.New("session denied")
	// ErrInactive means the account exists but is disabled.
	ErrInactive = errors.New("account inactive")
	// ErrNoToken means there was no token to verify.
	ErrNoToken = errors.New("no session token")
	// ErrNoSession means no session store is bound to the context.
	ErrNoSession = session.ErrNoStore
)

// Error carries the kind of failure plus the server's message, if any.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Message returns the text shown to the user for err.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Email ou mot de passe incorrect."
	case errors.Is(err, ErrUnavailable):
		return "Impossible de contacter le serveur. Vérifiez votre connexion et réessayez."
	case errors.Is(err, ErrInactive):
		return "Votre compte est désactivé."
	case errors.Is(err, ErrDenied):
		return "Votre session a expiré. Veuillez vous reconnecter."
	default:
		return "Une erreur inattendue est survenue."
	}
}
