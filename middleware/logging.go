package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/smcd-ma/portal/core/handler"
	"github.com/smcd-ma/portal/core/logger"
	"github.com/smcd-ma/portal/pkg/clientip"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx *handler.Context) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for successful requests (default: slog.LevelInfo)
	LogLevel slog.Level

	// LogHeaders logs request headers, redacting SensitiveHeaders
	LogHeaders bool

	// SensitiveHeaders are redacted when headers are logged
	SensitiveHeaders []string

	// SlowRequestThreshold logs slow requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration

	// Component name for structured logging (default: "http")
	Component string
}

// Logging logs one line per request with the given logger.
func Logging(log *slog.Logger) handler.Middleware {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

// LoggingWithConfig creates a request logging middleware with custom configuration.
func LoggingWithConfig(cfg LoggingConfig) handler.Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SensitiveHeaders == nil {
		cfg.SensitiveHeaders = []string{"Authorization", "Cookie", "Set-Cookie", "X-Csrf-Token"}
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx *handler.Context) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			req := ctx.Request()
			requestID, _ := GetRequestID(ctx)

			attrs := []slog.Attr{
				logger.Component(cfg.Component),
				logger.Method(req.Method),
				logger.Path(req.URL.Path),
				logger.ClientIP(clientip.GetIP(req)),
				logger.UserAgent(req.UserAgent()),
			}
			if requestID != "" {
				attrs = append(attrs, logger.RequestID(requestID))
			}
			if req.URL.RawQuery != "" {
				attrs = append(attrs, logger.Query(req.URL.RawQuery))
			}
			if cfg.LogHeaders {
				attrs = append(attrs, slog.Any("request_headers", redact(req.Header, cfg.SensitiveHeaders)))
			}

			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

				var err error
				if resp != nil {
					err = resp(wrapped, r)
				}
				duration := time.Since(start)

				attrs := append(attrs,
					logger.StatusCode(wrapped.statusCode),
					logger.BytesOut(int64(wrapped.size)),
					logger.Duration(duration),
				)

				level := cfg.LogLevel
				switch {
				case err != nil || wrapped.statusCode >= 500:
					level = slog.LevelError
					attrs = append(attrs, logger.Error(err))
				case wrapped.statusCode >= 400:
					level = slog.LevelWarn
				case duration > cfg.SlowRequestThreshold:
					level = slog.LevelWarn
					attrs = append(attrs, slog.Bool("slow_request", true))
				}

				cfg.Logger.LogAttrs(r.Context(), level, "HTTP request", attrs...)
				return err
			}
		}
	}
}

func redact(h http.Header, sensitive []string) map[string]any {
	out := make(map[string]any, len(h))
	for key, values := range h {
		switch {
		case slices.Contains(sensitive, key):
			out[key] = "[REDACTED]"
		case len(values) == 1:
			out[key] = values[0]
		default:
			out[key] = values
		}
	}
	return out
}

// responseWriter captures status and size.
type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	size          int
	headerWritten bool
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.headerWritten {
		rw.statusCode = statusCode
		rw.headerWritten = true
	}
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.headerWritten {
		rw.WriteHeader(http.StatusOK)
	}
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
