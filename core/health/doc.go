// Package health provides liveness and readiness handlers.
//
//	r.Get("/health", adapter.Handle(health.Readiness(log, 2*time.Second, map[string]health.Check{
//		"redis": redis.Healthcheck(client),
//	})))
//	r.Get("/health/live", adapter.Handle(health.Liveness))
package health
