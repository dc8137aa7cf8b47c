package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/smcd-ma/portal/core/handler"
	"github.com/smcd-ma/portal/core/logger"
	"github.com/smcd-ma/portal/core/response"
	"github.com/smcd-ma/portal/core/session"
)

// Verifier performs the authoritative session check.
type Verifier interface {
	VerifySession(ctx context.Context) (session.Profile, error)
}

// RoleChecker reads the cached role.
type RoleChecker interface {
	HasRole(ctx context.Context, role session.Role) bool
}

// GateConfig configures the session gate.
type GateConfig struct {
	// Verifier is required
	Verifier Verifier
	// Paths locate the login page (default: DefaultGuardPaths())
	Paths GuardPaths
	// Timeout bounds verification (default: 10s)
	Timeout time.Duration
	// Deferred answers plain GETs with Loading and verifies on the htmx
	// request the loading page issues.
	Deferred bool
	// Loading renders the blocking loading page in deferred mode
	Loading handler.HandlerFunc
	// Logger for structured logging (default: logger.Discard())
	Logger *slog.Logger
}

// Gate creates the session gate with default settings.
func Gate(v Verifier) handler.Middleware {
	return GateWithConfig(GateConfig{Verifier: v})
}

// GateWithConfig wraps protected pages. Without a token it redirects to the
// login page. Otherwise it verifies the session and runs the page only on
// success; on failure the verifier has already logged out and requested the
// navigation, so the gate renders nothing.
func GateWithConfig(cfg GateConfig) handler.Middleware {
	if cfg.Verifier == nil {
		panic("gate middleware: verifier is required")
	}
	if cfg.Paths.Login == "" {
		cfg.Paths = DefaultGuardPaths()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}

	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx *handler.Context) handler.Response {
			req := ctx.Request()

			st, ok := session.FromContext(ctx)
			if !ok || !st.HasToken() {
				return response.RedirectSeeOther(cfg.Paths.LoginURL(req.URL.Path))
			}

			if cfg.Deferred && cfg.Loading != nil && req.Method == http.MethodGet && !response.IsHTMX(req) {
				return cfg.Loading(ctx)
			}

			vctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()

			profile, err := cfg.Verifier.VerifySession(vctx)
			if err != nil {
				cfg.Logger.InfoContext(ctx, "session gate denied",
					logger.Component("gate"),
					logger.Path(req.URL.Path),
					logger.Error(err),
				)
				ctx.SetValue(decisionContextKey{}, session.Denied)
				if _, pending := st.PendingNavigation(); pending {
					return nil
				}
				return response.RedirectSeeOther(cfg.Paths.Login)
			}

			ctx.SetValue(decisionContextKey{}, session.Verified)
			ctx.SetValue(profileContextKey{}, profile)
			return next(ctx)
		}
	}
}

type profileContextKey struct{}

// VerifiedProfile returns the profile confirmed by the gate for this request.
func VerifiedProfile(ctx context.Context) (session.Profile, bool) {
	p, ok := ctx.Value(profileContextKey{}).(session.Profile)
	return p, ok
}

// RequireRole admits only users whose cached role is role. Place it after
// the gate so the cache reflects the server's current view. A nil forbidden
// handler answers with a plain 403.
func RequireRole(rc RoleChecker, role session.Role, forbidden handler.HandlerFunc) handler.Middleware {
	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx *handler.Context) handler.Response {
			if rc.HasRole(ctx, role) {
				return next(ctx)
			}
			if forbidden != nil {
				return forbidden(ctx)
			}
			return response.Error(response.ErrForbidden)
		}
	}
}
