package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/smcd-ma/portal/core/logger"
)

// Store is the request-scoped holder of the session token and cached profile.
// Token and profile are replaced together under one lock, so readers never see
// one updated without the other. A Store is safe for concurrent use by the
// goroutines of a single request.
type Store struct {
	m *Manager
	w http.ResponseWriter
	r *http.Request

	mu         sync.Mutex
	token      string
	profile    Profile
	hasProfile bool
	loaded     bool
	cleared    bool
	navigation string
	cancel     context.CancelCauseFunc
}

// Set stores token and profile. The profile cache is written first and the
// token last; the in-memory snapshot changes only after both succeed.
func (s *Store) Set(token string, p Profile) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.set(token, p)
}

// Refresh replaces the profile of the current token. It fails with ErrRevoked
// when the token changed or was cleared since the caller read it, so a late
// verification never resurrects a cleared session.
func (s *Store) Refresh(token string, p Profile) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != token {
		return ErrRevoked
	}
	return s.set(token, p)
}

func (s *Store) set(token string, p Profile) error {
	if err := s.m.cache.Save(s.w, s.r, token, p, s.m.ttl); err != nil {
		return fmt.Errorf("write profile cache: %w", err)
	}
	if err := s.m.cookies.SetSigned(s.w, s.m.tokenCookie, token, s.m.tokenOptions(int(s.m.ttl.Seconds()))...); err != nil {
		return fmt.Errorf("write session token: %w", err)
	}

	s.token = token
	s.profile = p
	s.hasProfile = true
	s.loaded = true
	s.cleared = false
	return nil
}

// Clear removes token and profile. It is idempotent: deletion cookies are
// emitted once per request however many times Clear runs. Clearing cancels the
// bound context with cause ErrRevoked.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cleared {
		s.cleared = true
		s.m.cookies.Delete(s.w, s.m.tokenCookie, s.m.tokenOptions(-1)...)
		// A profile left behind is unreachable without its token.
		if err := s.m.cache.Delete(s.w, s.r, s.token); err != nil {
			s.m.log.WarnContext(s.r.Context(), "profile cache delete failed",
				logger.Component("session"),
				logger.Error(err),
			)
		}
	}

	s.token = ""
	s.profile = Profile{}
	s.hasProfile = false
	s.loaded = true

	if s.cancel != nil {
		s.cancel(ErrRevoked)
	}
}

// Token returns the current token or "".
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// HasToken reports whether a token is present. Presence says nothing about validity.
func (s *Store) HasToken() bool {
	return s.Token() != ""
}

// Profile returns the cached profile. It reports false when there is no token,
// when nothing is cached, and when the cached value is corrupt.
func (s *Store) Profile() (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return Profile{}, false
	}
	if !s.loaded {
		s.loaded = true
		if p, err := s.m.cache.Load(s.r, s.token); err == nil {
			s.profile, s.hasProfile = p, true
		}
	}
	return s.profile, s.hasProfile
}

// RequestNavigation asks for a full navigation to target once the handler
// finishes. The first request wins; it reports whether this call set it.
func (s *Store) RequestNavigation(target string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.navigation != "" || target == "" {
		return false
	}
	s.navigation = target
	return true
}

// PendingNavigation returns the requested navigation target, if any.
func (s *Store) PendingNavigation() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigation, s.navigation != ""
}

// Bind returns a child of ctx carrying the Store. The child is cancelled with
// ErrRevoked when the session is cleared and with context.Canceled on Close.
// Call Bind once per Store.
func (s *Store) Bind(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancelCause(ctx)

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	return context.WithValue(ctx, ctxKey{}, s)
}

// Close releases the bound context.
func (s *Store) Close() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel(context.Canceled)
	}
}
