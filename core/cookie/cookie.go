package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"
)

const (
	// MaxCookieSize is the default maximum serialized cookie size (4KB).
	MaxCookieSize = 4096

	minSecretLength = 32

	// flashPrefix namespaces one-shot flash cookies.
	flashPrefix = "__flash_"
)

// Manager writes and reads HTTP cookies, optionally signed (HMAC-SHA256) or
// encrypted (AES-256-GCM). The first secret is used for writing; every secret
// is accepted when reading.
type Manager struct {
	secrets  []string
	defaults Options
	maxSize  int
}

// New creates a cookie manager with the given secrets and default options.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d",
				ErrSecretTooShort, i, len(s), minSecretLength)
		}
	}

	defaults := applyOptions(Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, opts)

	return &Manager{
		secrets:  secrets,
		defaults: defaults,
		maxSize:  MaxCookieSize,
	}, nil
}

// Defaults returns a copy of the manager's default cookie options.
func (m *Manager) Defaults() Options {
	return m.defaults
}

// Set writes a plain cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	options := applyOptions(m.defaults, opts)

	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}
	if options.MaxAge > 0 {
		c.Expires = time.Now().Add(time.Duration(options.MaxAge) * time.Second)
	}

	if size := len(c.String()); size > m.maxSize {
		return ErrCookieTooLarge{Name: name, Size: size, Max: m.maxSize}
	}

	http.SetCookie(w, c)
	return nil
}

// Get reads a plain cookie value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires a cookie. Path and domain must match the ones used to write
// it, so per-cookie options are accepted here as well.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	options := applyOptions(m.defaults, opts)

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
		Secure:   options.Secure,
	})
}

// SetSigned writes value with an HMAC signature appended.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	return m.Set(w, name, m.sign(value), opts...)
}

// GetSigned reads a signed cookie and verifies it against every secret.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(signed)
}

// SetEncrypted writes value encrypted with AES-256-GCM.
func (m *Manager) SetEncrypted(w http.ResponseWriter, name, value string, opts ...Option) error {
	encrypted, err := m.encrypt(value)
	if err != nil {
		return err
	}
	return m.Set(w, name, encrypted, opts...)
}

// GetEncrypted reads and decrypts a cookie.
func (m *Manager) GetEncrypted(r *http.Request, name string) (string, error) {
	encrypted, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.decrypt(encrypted)
}

// SetFlash stores a one-time value that GetFlash deletes on read.
func (m *Manager) SetFlash(w http.ResponseWriter, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal flash: %w", err)
	}
	return m.SetEncrypted(w, flashPrefix+key, string(data))
}

// GetFlash reads a flash value into dest and deletes the cookie.
func (m *Manager) GetFlash(w http.ResponseWriter, r *http.Request, key string, dest any) error {
	name := flashPrefix + key

	data, err := m.GetEncrypted(r, name)
	if err != nil {
		return err
	}

	m.Delete(w, name)

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("unmarshal flash: %w", err)
	}
	return nil
}

func (m *Manager) sign(value string) string {
	return base64.URLEncoding.EncodeToString([]byte(value)) + "|" + signature(m.secrets[0], []byte(value))
}

func (m *Manager) verify(signed string) (string, error) {
	encodedValue, sig, ok := strings.Cut(signed, "|")
	if !ok {
		return "", ErrInvalidFormat
	}

	value, err := base64.URLEncoding.DecodeString(encodedValue)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, secret := range m.secrets {
		if subtle.ConstantTimeCompare([]byte(sig), []byte(signature(secret, value))) == 1 {
			return string(value), nil
		}
	}
	return "", ErrInvalidSignature
}

func signature(secret string, value []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(value)
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}

func (m *Manager) encrypt(value string) (string, error) {
	gcm, err := newGCM(m.secrets[0])
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(value), nil)
	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

func (m *Manager) decrypt(encrypted string) (string, error) {
	data, err := base64.URLEncoding.DecodeString(encrypted)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, secret := range m.secrets {
		gcm, err := newGCM(secret)
		if err != nil {
			continue
		}
		if len(data) < gcm.NonceSize() {
			return "", ErrInvalidFormat
		}

		nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
		if plaintext, err := gcm.Open(nil, nonce, ciphertext, nil); err == nil {
			return string(plaintext), nil
		}
	}
	return "", ErrDecryptionFailed
}

// newGCM derives a 256-bit key from the secret.
func newGCM(secret string) (cipher.AEAD, error) {
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
