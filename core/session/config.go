package session

import (
	"log/slog"
	"time"
)

const (
	BackendCookie = "cookie"
	BackendRedis  = "redis"
)

// Config holds session configuration loaded from the environment.
type Config struct {
	TokenCookie   string `env:"SESSION_TOKEN_COOKIE" envDefault:"smcd_token"`
	ProfileCookie string `env:"SESSION_PROFILE_COOKIE" envDefault:"smcd_user"`
	TTLDays       int    `env:"SESSION_TTL_DAYS" envDefault:"7"`
	Backend       string `env:"SESSION_BACKEND" envDefault:"cookie"`
	RedisPrefix   string `env:"SESSION_REDIS_PREFIX" envDefault:"smcd:profile:"`
}

// TTL returns the token lifetime.
func (c Config) TTL() time.Duration {
	return time.Duration(c.TTLDays) * 24 * time.Hour
}

// Option configures a Manager.
type Option func(*Manager)

// WithTokenCookie sets the token cookie name.
func WithTokenCookie(name string) Option {
	return func(m *Manager) {
		m.tokenCookie = name
	}
}

// WithTTL sets the token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithSecure marks session cookies Secure. Enable it in production.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithCache sets the profile cache backend.
func WithCache(cache ProfileCache) Option {
	return func(m *Manager) {
		m.cache = cache
	}
}

// WithLogger sets the logger for cache failures that cannot be returned.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}
