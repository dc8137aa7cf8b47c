package cookie

import (
	"net/http"
	"strings"
)

// Config provides environment-based configuration for the cookie manager.
type Config struct {
	// Secrets is a comma-separated list; the first one signs and encrypts,
	// all of them are tried when reading (key rotation).
	Secrets  string        `env:"COOKIE_SECRETS,required"`
	Path     string        `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string        `env:"COOKIE_DOMAIN" envDefault:""`
	Secure   bool          `env:"COOKIE_SECURE" envDefault:"false"`
	HttpOnly bool          `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	SameSite http.SameSite `env:"COOKIE_SAME_SITE" envDefault:"2"` // SameSiteLaxMode
	MaxSize  int           `env:"COOKIE_MAX_SIZE" envDefault:"4096"`
}

// parseSecrets splits comma-separated secrets, dropping empty entries.
func (c Config) parseSecrets() []string {
	if c.Secrets == "" {
		return nil
	}

	parts := strings.Split(c.Secrets, ",")
	secrets := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			secrets = append(secrets, s)
		}
	}
	return secrets
}

// NewFromConfig creates a Manager from configuration. Only non-zero values
// override the secure defaults; opts are applied last.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	configOpts := make([]Option, 0, 6+len(opts))

	if cfg.Path != "" {
		configOpts = append(configOpts, WithPath(cfg.Path))
	}
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}
	if cfg.Secure {
		configOpts = append(configOpts, WithSecure(true))
	}
	if cfg.HttpOnly {
		configOpts = append(configOpts, WithHTTPOnly(true))
	}
	if cfg.SameSite != 0 {
		configOpts = append(configOpts, WithSameSite(cfg.SameSite))
	}
	configOpts = append(configOpts, opts...)

	m, err := New(cfg.parseSecrets(), configOpts...)
	if err != nil {
		return nil, err
	}
	if cfg.MaxSize > 0 {
		m.maxSize = cfg.MaxSize
	}
	return m, nil
}
