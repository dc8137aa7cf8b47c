// Package session holds the portal's login session: an opaque bearer token in
// a signed cookie and a cached user profile kept in a separate medium (an
// encrypted cookie or Redis).
//
// A Manager is built once at startup. Each request gets its own Store:
//
//	st := manager.Load(w, r)
//	ctx := st.Bind(r.Context())
//	defer st.Close()
//
// The session middleware does this for every request, so handlers and clients
// look the Store up with FromContext.
//
// # Invariants
//
// Token and profile are written and cleared together. A profile is never
// returned without its token: Profile reports false once the token is gone,
// even if a cached value is still around. A corrupt cached value reads as
// absent.
//
// Clear is idempotent and safe from several goroutines. It also cancels the
// bound context with ErrRevoked so that API calls still in flight for the
// request abort instead of completing with a dead credential.
//
// # Decisions
//
// Decision models the outcome of an access check. Presence checks produce
// Denied or OptimisticallyAdmitted; only a successful remote verification
// produces Verified.
package session
