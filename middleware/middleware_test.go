package middleware_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smcd-ma/portal/core/cookie"
	"github.com/smcd-ma/portal/core/handler"
	"github.com/smcd-ma/portal/core/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var (
	superAdmin = session.Profile{ID: 1, Email: "admin@smcd.ma", Role: session.RoleSuperAdmin, Active: true}
	moderator  = session.Profile{ID: 2, Email: "mod@smcd.ma", Role: session.RoleModerator, Active: true}
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	cookies, err := cookie.New([]string{testSecret})
	require.NoError(t, err)
	return session.NewManager(cookies)
}

// request builds a request, signed in with token and profile unless token is empty.
func request(t *testing.T, m *session.Manager, method, path, token string, p session.Profile) *http.Request {
	t.Helper()
	r := httptest.NewRequest(method, path, nil)
	if token == "" {
		return r
	}

	w := httptest.NewRecorder()
	require.NoError(t, m.Load(w, httptest.NewRequest(http.MethodPost, "/", nil)).Set(token, p))
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func page(body string) handler.HandlerFunc {
	return func(ctx *handler.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			_, err := io.WriteString(w, body)
			return err
		}
	}
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

// verifierFunc adapts a function to middleware.Verifier.
type verifierFunc func(ctx context.Context) (session.Profile, error)

func (f verifierFunc) VerifySession(ctx context.Context) (session.Profile, error) {
	return f(ctx)
}

// logoutThen mimics the auth client: clear, request navigation, fail.
func logoutThen(err error) verifierFunc {
	return func(ctx context.Context) (session.Profile, error) {
		if st, ok := session.FromContext(ctx); ok {
			st.Clear()
			st.RequestNavigation("/admin/login")
		}
		return session.Profile{}, err
	}
}
