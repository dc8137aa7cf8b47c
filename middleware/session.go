package middleware

import (
	"log/slog"
	"net/http"

	"github.com/smcd-ma/portal/core/handler"
	"github.com/smcd-ma/portal/core/logger"
	"github.com/smcd-ma/portal/core/response"
	"github.com/smcd-ma/portal/core/session"
)

// SessionConfig configures the session middleware.
type SessionConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx *handler.Context) bool
	// Manager builds the per-request Store (required)
	Manager *session.Manager
	// Logger for structured logging (default: logger.Discard())
	Logger *slog.Logger
}

// Session creates the session lifecycle middleware.
func Session(m *session.Manager) handler.Middleware {
	return SessionWithConfig(SessionConfig{Manager: m})
}

// SessionWithConfig creates the session lifecycle middleware with custom configuration.
//
// For every request it:
//   - loads the Store from the request cookies
//   - binds it to the request context for the rest of the chain
//   - after the handler returns, replaces the response with a single redirect
//     when a navigation was requested (logout, rejected credential)
//   - closes the Store once the response has been written
func SessionWithConfig(cfg SessionConfig) handler.Middleware {
	if cfg.Manager == nil {
		panic("session middleware: manager is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}

	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx *handler.Context) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			st := cfg.Manager.Load(ctx.ResponseWriter(), ctx.Request())
			ctx.SetContext(st.Bind(ctx.Request().Context()))

			resp := next(ctx)

			if target, ok := st.PendingNavigation(); ok {
				cfg.Logger.DebugContext(ctx, "session navigation",
					logger.Component("session"),
					logger.Path(ctx.Request().URL.Path),
					slog.String("target", target),
				)
				resp = response.RedirectSeeOther(target)
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				defer st.Close()
				if resp == nil {
					return nil
				}
				return resp(w, r)
			}
		}
	}
}
