package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/smcd-ma/portal/core/logger"
)

// Server wraps http.Server with context-driven graceful shutdown.
// Safe for concurrent use.
type Server struct {
	mu             sync.Mutex
	addr           string
	server         *http.Server
	listener       net.Listener
	logger         *slog.Logger
	shutdown       time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration
	maxHeaderBytes int
}

// New creates a Server listening on addr once started.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:           addr,
		logger:         logger.Discard(),
		shutdown:       DefaultShutdownTimeout,
		readTimeout:    DefaultReadTimeout,
		writeTimeout:   DefaultWriteTimeout,
		idleTimeout:    DefaultIdleTimeout,
		maxHeaderBytes: DefaultMaxHeaderBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the bound address while running, or the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Start binds the listener and serves in the background.
func (s *Server) Start(handler http.Handler) (<-chan error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return nil, ErrServerAlreadyRunning
	}
	if s.addr == "" {
		return nil, ErrMissingAddress
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       s.readTimeout,
		ReadHeaderTimeout: s.readTimeout,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       s.idleTimeout,
		MaxHeaderBytes:    s.maxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.server = srv
	s.listener = ln

	done := make(chan error, 1)
	go func() {
		s.logger.Info("server started", slog.String("addr", ln.Addr().String()))
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		done <- err
		close(done)
	}()

	return done, nil
}

// Stop drains in-flight requests within the shutdown timeout.
func (s *Server) Stop() error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return ErrServerNotRunning
	}

	s.logger.Info("shutting down server", logger.Duration(s.shutdown))

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("server shutdown failed", logger.Error(err))
		return err
	}

	s.logger.Info("server stopped")
	return nil
}

// Run serves until ctx is canceled, then shuts down gracefully.
// Suitable as an errgroup member.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	done, err := s.Start(handler)
	if err != nil {
		return err
	}

	select {
	case err := <-done:
		s.mu.Lock()
		s.server = nil
		s.listener = nil
		s.mu.Unlock()
		return err
	case <-ctx.Done():
		if err := s.Stop(); err != nil {
			return err
		}
		return <-done
	}
}
