package middleware

import (
	"context"
	"net/url"
	"strings"

	"github.com/smcd-ma/portal/core/handler"
	"github.com/smcd-ma/portal/core/response"
	"github.com/smcd-ma/portal/core/session"
)

// GuardPaths describes the admin surface.
type GuardPaths struct {
	Prefix        string
	Login         string
	Home          string
	RedirectParam string
}

// DefaultGuardPaths returns the portal's admin paths.
func DefaultGuardPaths() GuardPaths {
	return GuardPaths{
		Prefix:        "/admin",
		Login:         "/admin/login",
		Home:          "/admin/dashboard",
		RedirectParam: "redirect",
	}
}

// Covers reports whether path is under the admin prefix.
func (p GuardPaths) Covers(path string) bool {
	return path == p.Prefix || strings.HasPrefix(path, p.Prefix+"/")
}

// LoginURL returns the login URL carrying returnTo as the return target.
func (p GuardPaths) LoginURL(returnTo string) string {
	if returnTo == "" {
		return p.Login
	}
	return p.Login + "?" + p.RedirectParam + "=" + strings.ReplaceAll(url.QueryEscape(returnTo), "%2F", "/")
}

// SafeReturn returns target if it is a path on the admin surface other than
// the login page, and the home path otherwise.
func (p GuardPaths) SafeReturn(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return p.Home
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return p.Home
	}
	path := strings.TrimSuffix(u.Path, "/")
	if !p.Covers(u.Path) || path == p.Prefix || path == p.Login {
		return p.Home
	}
	return target
}

// GuardAction is the route guard's verdict.
type GuardAction struct {
	Admit    bool
	Redirect string
	Decision session.Decision
}

// Decide applies the guard table to path. It looks at token presence only.
func Decide(p GuardPaths, path string, hasToken bool) GuardAction {
	if !p.Covers(path) {
		return GuardAction{Admit: true, Decision: session.Denied}
	}

	trimmed := strings.TrimSuffix(path, "/")
	switch {
	case trimmed == p.Login:
		if hasToken {
			return GuardAction{Redirect: p.Home, Decision: session.OptimisticallyAdmitted}
		}
		return GuardAction{Admit: true, Decision: session.Denied}
	case trimmed == p.Prefix:
		if hasToken {
			return GuardAction{Redirect: p.Home, Decision: session.OptimisticallyAdmitted}
		}
		return GuardAction{Redirect: p.Login, Decision: session.Denied}
	case hasToken:
		return GuardAction{Admit: true, Decision: session.OptimisticallyAdmitted}
	default:
		return GuardAction{Redirect: p.LoginURL(path), Decision: session.Denied}
	}
}

type decisionContextKey struct{}

// Guard is the request-time route filter for the admin surface. It never
// verifies the token; it only keeps anonymous requests away from protected
// pages and signed-in users away from the login page.
func Guard(paths GuardPaths) handler.Middleware {
	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx *handler.Context) handler.Response {
			st, ok := session.FromContext(ctx)
			action := Decide(paths, ctx.Request().URL.Path, ok && st.HasToken())

			ctx.SetValue(decisionContextKey{}, action.Decision)
			if !action.Admit {
				return response.RedirectSeeOther(action.Redirect)
			}
			return next(ctx)
		}
	}
}

// GetDecision returns the latest access decision recorded for the request.
func GetDecision(ctx context.Context) session.Decision {
	d, _ := ctx.Value(decisionContextKey{}).(session.Decision)
	return d
}
