package session

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is the coarse authorization role of a portal user.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleModerator  Role = "MODERATOR"
)

// Profile is the cached view of the authenticated user. It is a read cache,
// never a source of access decisions on its own.
type Profile struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
	Role   Role   `json:"role"`
	Active bool   `json:"active"`
}

// DisplayName returns "Prenom NOM", falling back to the email.
func (p Profile) DisplayName() string {
	// Casers are stateful; build them per call.
	prenom := cases.Title(language.French).String(strings.TrimSpace(p.Prenom))
	nom := cases.Upper(language.French).String(strings.TrimSpace(p.Nom))

	name := strings.TrimSpace(prenom + " " + nom)
	if name == "" {
		return p.Email
	}
	return name
}

// Decision is the outcome of an access check.
type Decision int

const (
	// Denied means no token, or verification failed.
	Denied Decision = iota
	// OptimisticallyAdmitted means a token is present but unverified.
	OptimisticallyAdmitted
	// Verified means the remote service confirmed the token.
	Verified
)

func (d Decision) String() string {
	switch d {
	case OptimisticallyAdmitted:
		return "optimistically-admitted"
	case Verified:
		return "verified"
	default:
		return "denied"
	}
}
