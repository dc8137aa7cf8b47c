// Package apiclient is the outbound pipeline to the remote conference API.
//
// Every call goes through one send path that applies the credential rule:
// when the request context's session holds a token, the call carries
// "Authorization: Bearer <token>"; when such a call is answered with 401, the
// reject hook runs (it logs the user out) and the caller gets an *Error that
// matches ErrCredentialRejected. Rejections are never retried.
//
// Failures with no response are *NetworkError and never log the user out.
// Calls cut short because another call already revoked the session return
// ErrSessionRevoked.
//
// Two channels share the rule: JSON calls use API_TIMEOUT and multipart
// uploads use the longer API_UPLOAD_TIMEOUT.
//
//	var list []Abstract
//	err := api.Get(ctx, "/abstracts", &list, apiclient.WithQuery(url.Values{"status": {"PENDING"}}))
package apiclient
