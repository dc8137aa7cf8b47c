// Package middleware provides the portal's handler.Middleware implementations.
//
// Middlewares follow one pattern: a default constructor, a WithConfig
// constructor taking a Config struct where customization makes sense, and
// context helpers to read back what they stored.
//
// # Session authentication
//
// Three middlewares form the two-tier access check for the admin surface:
//
//   - Session loads the request's session.Store, binds it to the context
//     and turns a requested navigation (logout) into one redirect.
//   - Guard runs before any admin page and decides from token presence
//     alone: it redirects anonymous requests to the login page with a return
//     target and signed-in users away from the login page.
//   - Gate wraps protected pages and verifies the session against the
//     remote service before the page runs.
//
// Guard admits optimistically; only Gate can confirm access:
//
//	admin := adapter.With(middleware.Guard(paths))
//	protected := admin.With(middleware.Gate(auth))
//	r.Get("/admin/abstracts", protected.Handle(listAbstracts))
//
// RequireRole adds a coarse role check on top of the gate.
//
// # Plumbing
//
// RequestID, ClientIP, Logging, SecurityHeaders and BodyLimit cover the
// usual cross-cutting concerns.
package middleware
