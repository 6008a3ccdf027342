package auth

import "github.com/jrsteele09/go-lending-server/session"

// Decision is the outcome of an authorization check.
type Decision int

const (
	// Allowed means the guarded action may proceed.
	Allowed Decision = iota
	// Blocked means the caller must redirect to the login entry point and
	// must not execute the guarded action.
	Blocked
)

// RequireAuthenticated is the single gate every protected action routes
// through. On Blocked it records why ("please log in to ...") as an info
// flash and where to resume (intendedPath) on the session, so a subsequent
// successful login can pick up where the actor left off.
//
// The gate must run before any resource resolution: an unauthenticated
// actor always gets a clean redirect to login, whether or not the resource
// they referenced exists.
func RequireAuthenticated(sess *session.Context, promptMessage, intendedPath string) Decision {
	if sess.Authenticated() {
		return Allowed
	}
	sess.SetFlash(session.NewFlash(session.SeverityInfo, promptMessage))
	sess.SetRedirectTo(intendedPath)
	return Blocked
}
