// Package authclient maintains a client-side session against a remote
// task-manager API and gates access to protected views.
//
// Session pipeline:
//   - CredentialStore is the single source of truth for "do we hold a
//     credential". The bearer token and cached user are written and
//     cleared together, so no reader ever observes half a pair. The
//     bun/sqlite-backed store survives process restarts; the memory
//     store backs tests and ephemeral sessions.
//   - Pipeline wraps every outbound request as an http.RoundTripper. It
//     attaches the bearer credential when present and, on a 401/403
//     response to a credentialed request, invalidates the session
//     exactly once per failure episode before the error reaches the
//     caller.
//   - SessionManager derives the session phase (hydrating,
//     unauthenticated, authenticated) from the store through an explicit
//     transition table. Construct one per client and pass it by
//     reference; there are no ambient globals.
//
// Notifications:
//   - Notifier fans out transient user-facing messages with a fixed
//     time-to-live. Removal cancels the pending expiry timer through the
//     Scheduler seam, which keeps timing invariants testable without
//     real timers.
//
// The Gate middleware consumes SessionManager through go-router's
// framework-neutral Context: unauthenticated requests are redirected to
// the login route, authenticated non-admins hitting admin routes are
// sent to the forbidden route without touching the session.
package authclient
