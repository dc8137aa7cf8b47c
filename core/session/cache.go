package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/smcd-ma/portal/core/cookie"
)

// ProfileCache stores the cached profile in a medium separate from the token.
// Implementations return ErrProfileNotFound when nothing is cached for token and
// ErrMalformedProfile when the stored value cannot be decoded.
type ProfileCache interface {
	Load(r *http.Request, token string) (Profile, error)
	Save(w http.ResponseWriter, r *http.Request, token string, p Profile, ttl time.Duration) error
	Delete(w http.ResponseWriter, r *http.Request, token string) error
}

// tokenDigest identifies a token without storing it.
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CookieCache keeps the profile in an encrypted cookie. The payload records a
// digest of the token it was written for, so a profile left over from another
// login is ignored.
type CookieCache struct {
	cookies *cookie.Manager
	name    string
	secure  bool
}

// NewCookieCache creates a cookie-backed profile cache.
func NewCookieCache(cookies *cookie.Manager, name string, secure bool) *CookieCache {
	return &CookieCache{cookies: cookies, name: name, secure: secure}
}

type cookiePayload struct {
	Token   string  `json:"t"`
	Profile Profile `json:"p"`
}

func (c *CookieCache) Load(r *http.Request, token string) (Profile, error) {
	raw, err := c.cookies.GetEncrypted(r, c.name)
	if err != nil {
		if errors.Is(err, cookie.ErrCookieNotFound) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, errors.Join(ErrMalformedProfile, err)
	}

	var payload cookiePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return Profile{}, errors.Join(ErrMalformedProfile, err)
	}
	if payload.Token != tokenDigest(token) {
		return Profile{}, ErrProfileNotFound
	}
	return payload.Profile, nil
}

func (c *CookieCache) Save(w http.ResponseWriter, _ *http.Request, token string, p Profile, ttl time.Duration) error {
	data, err := json.Marshal(cookiePayload{Token: tokenDigest(token), Profile: p})
	if err != nil {
		return err
	}
	return c.cookies.SetEncrypted(w, c.name, string(data), c.options(int(ttl.Seconds()))...)
}

func (c *CookieCache) Delete(w http.ResponseWriter, _ *http.Request, _ string) error {
	c.cookies.Delete(w, c.name, c.options(-1)...)
	return nil
}

func (c *CookieCache) options(maxAge int) []cookie.Option {
	return cookieOptions(maxAge, c.secure)
}

func cookieOptions(maxAge int, secure bool) []cookie.Option {
	return []cookie.Option{
		cookie.WithPath("/"),
		cookie.WithMaxAge(maxAge),
		cookie.WithSecure(secure),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
	}
}
