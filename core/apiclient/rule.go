package apiclient

import (
	"context"
	"net/http"

	"github.com/smcd-ma/portal/core/session"
)

// TokenSource yields the bearer token for the call's context, or "".
type TokenSource func(ctx context.Context) string

// RejectFunc tears the session down after the remote service rejected its
// credential. It may run several times for one request and must be idempotent.
type RejectFunc func(ctx context.Context)

// SessionToken reads the token from the Store bound to ctx.
func SessionToken(ctx context.Context) string {
	if st, ok := session.FromContext(ctx); ok {
		return st.Token()
	}
	return ""
}

// credentialRule attaches the bearer token and recognises rejected
// credentials. Both channels apply the same rule.
type credentialRule struct {
	token    TokenSource
	onReject RejectFunc
}

// attach sets the Authorization header and reports whether the call is credentialed.
func (r credentialRule) attach(req *http.Request) bool {
	if r.token == nil {
		return false
	}
	token := r.token(req.Context())
	if token == "" {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return true
}

// rejected reports whether resp rejects the credential of a credentialed call,
// running the reject hook when it does.
func (r credentialRule) rejected(ctx context.Context, resp *http.Response, credentialed bool) bool {
	if !credentialed || resp.StatusCode != http.StatusUnauthorized {
		return false
	}
	if r.onReject != nil {
		r.onReject(ctx)
	}
	return true
}
