package server

import (
	"log/slog"
	"time"
)

// Option configures a Server.
type Option func(*Server)

func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.logger = log
		}
	}
}

func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) { s.readTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) { s.writeTimeout = d }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) { s.idleTimeout = d }
}

// WithShutdownTimeout bounds how long in-flight requests may drain on stop.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdown = d }
}

func WithMaxHeaderBytes(n int) Option {
	return func(s *Server) { s.maxHeaderBytes = n }
}
