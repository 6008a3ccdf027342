package server

import (
	"net/http"

	"github.com/jrsteele09/go-lending-server/auth"
	"github.com/jrsteele09/go-lending-server/session"
)

// requireAuthenticated runs the auth gate for a protected action. On a
// block it redirects to the login page and returns false; the caller must
// stop immediately and must not resolve any resources.
//
// Ordering matters: this runs before the handler touches whatever resource
// the request refers to, so an unauthenticated actor gets a clean login
// redirect even when the resource id is garbage.
func (s *Server) requireAuthenticated(w http.ResponseWriter, r *http.Request, sess *session.Context, promptMessage, intendedPath string) bool {
	if auth.RequireAuthenticated(sess, promptMessage, intendedPath) == auth.Blocked {
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return false
	}
	return true
}
