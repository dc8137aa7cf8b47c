package authclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/smcd-ma/portal/core/apiclient"
	"github.com/smcd-ma/portal/core/logger"
	"github.com/smcd-ma/portal/core/session"
)

// API is the part of the request pipeline the auth client needs.
type API interface {
	Get(ctx context.Context, path string, out any, opts ...apiclient.RequestOption) error
	Post(ctx context.Context, path string, in, out any, opts ...apiclient.RequestOption) error
}

// Credentials is the login form payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string       `json:"token"`
	ID      int64        `json:"id"`
	Email   string       `json:"email"`
	Nom     string       `json:"nom"`
	Prenom  string       `json:"prenom"`
	Role    session.Role `json:"role"`
	Message string       `json:"message"`
}

// Client runs login, logout and verification against the remote service.
// It is the only component that writes the session after a round-trip.
type Client struct {
	api       API
	loginPath string
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLoginPath sets where Logout navigates.
func WithLoginPath(path string) Option {
	return func(c *Client) {
		c.loginPath = path
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a Client.
func New(api API, opts ...Option) *Client {
	c := &Client{
		api:       api,
		loginPath: "/admin/login",
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logger.Component("authclient"))
	return c
}

// LoginPath returns the login page path.
func (c *Client) LoginPath() string {
	return c.loginPath
}

// Login authenticates with the service and stores the session. On failure
// the session is left untouched.
func (c *Client) Login(ctx context.Context, creds Credentials) (session.Profile, error) {
	st, ok := session.FromContext(ctx)
	if !ok {
		return session.Profile{}, ErrNoSession
	}
	creds.Email = strings.TrimSpace(creds.Email)

	var resp loginResponse
	if err := c.api.Post(ctx, "/auth/login", creds, &resp, apiclient.Anonymous()); err != nil {
		c.logger.InfoContext(ctx, "login failed", logger.Event("login"), logger.Error(err))
		return session.Profile{}, classifyLogin(err)
	}
	if resp.Token == "" {
		return session.Profile{}, &Error{Kind: ErrInvalidCredentials, Message: resp.Message}
	}

	profile := session.Profile{
		ID:     resp.ID,
		Email:  resp.Email,
		Nom:    resp.Nom,
		Prenom: resp.Prenom,
		Role:   resp.Role,
		Active: true,
	}
	if profile.Email == "" {
		profile.Email = creds.Email
	}
	if err := st.Set(resp.Token, profile); err != nil {
		return session.Profile{}, fmt.Errorf("store session: %w", err)
	}

	c.logger.InfoContext(ctx, "login",
		logger.Event("login"),
		logger.UserID(profile.ID),
		logger.Role(string(profile.Role)),
	)
	return profile, nil
}

func classifyLogin(err error) error {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return &Error{Kind: ErrInvalidCredentials, Message: apiErr.Message, Err: err}
		}
	}
	return &Error{Kind: ErrUnavailable, Err: err}
}

// Logout clears the session and requests one navigation to the login page.
// It needs nothing but ctx, is idempotent, and does nothing when no session
// is bound. The request pipeline calls it when a credential is rejected.
func (c *Client) Logout(ctx context.Context) {
	st, ok := session.FromContext(ctx)
	if !ok {
		return
	}

	hadToken := st.HasToken()
	st.Clear()
	if st.RequestNavigation(c.loginPath) && hadToken {
		c.logger.InfoContext(ctx, "logout", logger.Event("logout"))
	}
}

// VerifySession asks the service who the current token belongs to. On
// success the cached profile is replaced with the server's view. Any failure
// logs the user out and returns an error matching ErrDenied.
func (c *Client) VerifySession(ctx context.Context) (session.Profile, error) {
	st, ok := session.FromContext(ctx)
	if !ok {
		return session.Profile{}, fmt.Errorf("%w: %w", ErrDenied, ErrNoSession)
	}

	token := st.Token()
	if token == "" {
		return session.Profile{}, c.deny(ctx, ErrNoToken)
	}

	var me session.Profile
	if err := c.api.Get(ctx, "/auth/me", &me); err != nil {
		return session.Profile{}, c.deny(ctx, err)
	}
	if me.Email == "" && me.ID == 0 {
		return session.Profile{}, c.deny(ctx, errors.New("empty profile"))
	}
	if !me.Active {
		return session.Profile{}, c.deny(ctx, ErrInactive)
	}

	if err := st.Refresh(token, me); err != nil {
		return session.Profile{}, c.deny(ctx, err)
	}
	return me, nil
}

func (c *Client) deny(ctx context.Context, cause error) error {
	c.Logout(ctx)
	c.logger.DebugContext(ctx, "session denied", logger.Event("verify"), logger.Error(cause))
	return fmt.Errorf("%w: %w", ErrDenied, cause)
}

// CurrentUser returns the cached profile. It never calls the service.
func (c *Client) CurrentUser(ctx context.Context) (session.Profile, bool) {
	st, ok := session.FromContext(ctx)
	if !ok {
		return session.Profile{}, false
	}
	return st.Profile()
}

// HasRole checks the cached profile. It reflects the last verified state and
// is false whenever the token is absent.
func (c *Client) HasRole(ctx context.Context, role session.Role) bool {
	p, ok := c.CurrentUser(ctx)
	return ok && p.Role == role
}

// IsAdmin reports whether the cached profile is a super admin.
func (c *Client) IsAdmin(ctx context.Context) bool {
	return c.HasRole(ctx, session.RoleSuperAdmin)
}
