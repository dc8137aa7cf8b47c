package portal

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smcd-ma/portal/core/handler"
	"github.com/smcd-ma/portal/core/health"
	"github.com/smcd-ma/portal/core/response"
	"github.com/smcd-ma/portal/core/session"
	"github.com/smcd-ma/portal/core/static"
	"github.com/smcd-ma/portal/integration/database/redis"
	"github.com/smcd-ma/portal/middleware"
)

const loginBodyLimit = 64 << 10

func (a *App) routes() http.Handler {
	security := middleware.DevelopmentSecurity
	if a.cfg.IsProduction() {
		security = middleware.PortalSecurity
	}

	plain := handler.NewAdapter(a.renderError,
		middleware.RequestID(),
		middleware.Logging(a.log),
	)
	pages := plain.With(
		middleware.ClientIP(),
		middleware.SecurityHeadersWithConfig(security),
		middleware.SessionWithConfig(middleware.SessionConfig{Manager: a.sessions, Logger: a.log}),
	)
	guarded := pages.With(middleware.Guard(a.paths))

	gate := middleware.GateWithConfig(middleware.GateConfig{
		Verifier: a.auth,
		Paths:    a.paths,
		Timeout:  a.cfg.GateVerifyTimeout,
		Deferred: a.cfg.GateDeferred,
		Loading:  a.loading,
		Logger:   a.log,
	})
	gated := guarded.With(gate)

	checks := map[string]health.Check{}
	if a.redis != nil {
		checks["redis"] = redis.Healthcheck(a.redis)
	}

	r := chi.NewRouter()

	r.Get("/", pages.Handle(a.home))
	r.Get("/health", plain.Handle(health.Readiness(a.log, a.cfg.HealthTimeout, checks)))
	r.Get("/health/live", plain.Handle(health.Liveness))
	r.Get("/assets/*", plain.Handle(static.FS(assets,
		static.WithSubFS("assets"),
		static.WithFSStripPrefix("/assets"),
	)))

	r.Route(a.paths.Prefix, func(r chi.Router) {
		r.Get("/", guarded.Handle(a.adminIndex))
		r.Get("/login", guarded.Handle(a.loginPage))
		r.Post("/login", guarded.With(middleware.BodyLimit(loginBodyLimit)).Handle(a.loginSubmit))
		r.Post("/logout", pages.Handle(a.logout))

		r.Get("/dashboard", gated.Handle(a.dashboard))
		r.Get("/abstracts", gated.Handle(a.abstracts))
		r.Post("/abstracts/{id}/file", guarded.With(
			middleware.BodyLimit(a.cfg.UploadMaxBytes),
			gate,
		).Handle(a.uploadAbstractFile))
		r.Get("/users", gated.With(
			middleware.RequireRole(a.auth, session.RoleSuperAdmin, a.forbidden),
		).Handle(a.users))

		// Unknown admin paths still pass the guard.
		r.NotFound(guarded.Handle(notFound))
		r.MethodNotAllowed(guarded.Handle(methodNotAllowed))
	})

	r.NotFound(pages.Handle(notFound))
	r.MethodNotAllowed(pages.Handle(methodNotAllowed))

	return r
}

func notFound(*handler.Context) handler.Response {
	return response.Error(response.ErrNotFound)
}

func methodNotAllowed(*handler.Context) handler.Response {
	return response.Error(response.ErrMethodNotAllowed)
}
