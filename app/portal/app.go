package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	goredis "github.com/redis/go-redis/v9"

	"github.com/smcd-ma/portal/core/apiclient"
	"github.com/smcd-ma/portal/core/authclient"
	"github.com/smcd-ma/portal/core/cookie"
	"github.com/smcd-ma/portal/core/logger"
	"github.com/smcd-ma/portal/core/server"
	"github.com/smcd-ma/portal/core/session"
	"github.com/smcd-ma/portal/integration/database/redis"
	"github.com/smcd-ma/portal/middleware"
)

// App is the wired portal.
type App struct {
	cfg      Config
	log      *slog.Logger
	paths    middleware.GuardPaths
	cookies  *cookie.Manager
	sessions *session.Manager
	api      *apiclient.Client
	auth     *authclient.Client
	redis    *goredis.Client
	ownRedis bool
	http     *http.Client
	handler  http.Handler
}

// Option configures New.
type Option func(*App)

// WithLogger sets the application logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *App) {
		if log != nil {
			a.log = log
		}
	}
}

// WithRedis supplies an existing client instead of connecting from config.
func WithRedis(client *goredis.Client) Option {
	return func(a *App) {
		a.redis = client
	}
}

// WithHTTPClient sets the client used to reach the remote API.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *App) {
		a.http = hc
	}
}

// New wires the application from cfg. Redis is connected only when the
// session backend asks for it.
func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	a := &App{
		cfg:   cfg,
		log:   logger.Discard(),
		paths: middleware.DefaultGuardPaths(),
	}
	for _, opt := range opts {
		opt(a)
	}

	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return nil, fmt.Errorf("cookie manager: %w", err)
	}
	a.cookies = cookies

	if cfg.Session.Backend == session.BackendRedis && a.redis == nil {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.redis = client
		a.ownRedis = true
	}

	var cmd goredis.Cmdable
	if a.redis != nil {
		cmd = a.redis
	}
	a.sessions, err = session.NewFromConfig(cfg.Session, cookies, cmd,
		session.WithSecure(cfg.Cookie.Secure || cfg.IsProduction()),
		session.WithLogger(a.log),
	)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("session manager: %w", err)
	}

	// The request pipeline and the auth client depend on each other: a
	// rejected credential must log out, and logging in goes through the
	// pipeline. The hook closes over auth, which is set right after.
	var auth *authclient.Client
	apiOpts := []apiclient.Option{
		apiclient.WithLogger(a.log),
		apiclient.WithRejectHandler(func(ctx context.Context) {
			auth.Logout(ctx)
		}),
	}
	if a.http != nil {
		apiOpts = append(apiOpts, apiclient.WithHTTPClient(a.http))
	}
	a.api, err = apiclient.NewFromConfig(cfg.API, apiOpts...)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("api client: %w", err)
	}
	auth = authclient.New(a.api,
		authclient.WithLoginPath(a.paths.Login),
		authclient.WithLogger(a.log),
	)
	a.auth = auth

	a.handler = a.routes()
	return a, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves until ctx is canceled and then releases resources.
func (a *App) Run(ctx context.Context) error {
	srv, err := server.NewFromConfig(a.cfg.Server, server.WithLogger(a.log))
	if err != nil {
		return err
	}

	a.log.InfoContext(ctx, "portal starting",
		slog.String("env", a.cfg.Env),
		slog.String("api", a.cfg.API.BaseURL),
		slog.String("session_backend", a.cfg.Session.Backend),
	)
	return errors.Join(srv.Run(ctx, a.handler), a.Close())
}

// Close releases the redis client when New opened it.
func (a *App) Close() error {
	if a.ownRedis && a.redis != nil {
		err := a.redis.Close()
		a.redis = nil
		return err
	}
	return nil
}
