package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smcd-ma/portal/core/handler"
	"github.com/smcd-ma/portal/core/logger"
	"github.com/smcd-ma/portal/core/response"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// Status is the JSON body of the readiness probe.
type Status struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Liveness always answers 200 "ALIVE".
func Liveness(*handler.Context) handler.Response {
	return response.String("ALIVE")
}

// Readiness runs all checks concurrently within timeout and answers 200 when
// every check passes, 503 otherwise. A zero timeout means 5s.
func Readiness(log *slog.Logger, timeout time.Duration, checks map[string]Check) handler.HandlerFunc {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Discard()
	}

	return func(ctx *handler.Context) handler.Response {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		errs := make([]error, len(checks))
		names := make([]string, 0, len(checks))
		for name := range checks {
			names = append(names, name)
		}

		var g errgroup.Group
		for i, name := range names {
			check := checks[name]
			g.Go(func() error {
				errs[i] = check(cctx)
				return nil
			})
		}
		_ = g.Wait()

		body := Status{Status: "ok", Checks: make(map[string]string, len(checks))}
		for i, name := range names {
			if errs[i] != nil {
				body.Status = "unavailable"
				body.Checks[name] = "down"
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component("health"),
					slog.String("check", name),
					logger.Error(errs[i]),
				)
				continue
			}
			body.Checks[name] = "up"
		}

		if body.Status != "ok" {
			return response.JSONWithStatus(body, http.StatusServiceUnavailable)
		}
		return response.JSON(body)
	}
}
