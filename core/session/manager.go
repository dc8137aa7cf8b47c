package session

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smcd-ma/portal/core/cookie"
	"github.com/smcd-ma/portal/core/logger"
)

// Manager is the process-wide session configuration. It builds one Store per
// request and performs no remote I/O.
type Manager struct {
	cookies       *cookie.Manager
	cache         ProfileCache
	tokenCookie   string
	profileCookie string
	ttl           time.Duration
	secure        bool
	log           *slog.Logger
}

// NewManager creates a Manager. Without WithCache the profile is kept in an
// encrypted cookie.
func NewManager(cookies *cookie.Manager, opts ...Option) *Manager {
	m := &Manager{
		cookies:       cookies,
		tokenCookie:   "smcd_token",
		profileCookie: "smcd_user",
		ttl:           7 * 24 * time.Hour,
		log:           logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cache == nil {
		m.cache = NewCookieCache(cookies, m.profileCookie, m.secure)
	}
	return m
}

// NewFromConfig creates a Manager from cfg. The redis client is required only
// for the redis backend.
func NewFromConfig(cfg Config, cookies *cookie.Manager, client redis.Cmdable, opts ...Option) (*Manager, error) {
	base := []Option{
		WithTokenCookie(cfg.TokenCookie),
		func(m *Manager) { m.profileCookie = cfg.ProfileCookie },
	}
	if cfg.TTLDays > 0 {
		base = append(base, WithTTL(cfg.TTL()))
	}

	switch cfg.Backend {
	case "", BackendCookie:
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("%w: redis backend needs a redis client", ErrUnknownBackend)
		}
		base = append(base, WithCache(NewRedisCache(client, cfg.RedisPrefix)))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}

	return NewManager(cookies, append(base, opts...)...), nil
}

// TTL returns the token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Load builds the request-scoped Store. A missing or tampered token cookie
// reads as no token.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) *Store {
	token, err := m.cookies.GetSigned(r, m.tokenCookie)
	if err != nil {
		token = ""
	}
	return &Store{m: m, w: w, r: r, token: token}
}

func (m *Manager) tokenOptions(maxAge int) []cookie.Option {
	return cookieOptions(maxAge, m.secure)
}
