package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-lending-server/session"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	Page
	Username string // Preserve username on error
}

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("login.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse login template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)
		render(w, tmpl, http.StatusOK, LoginPageData{Page: s.newPage(r, sess, "Login")})
	}
}

// LoginSubmissionHandler processes the login form (POST /login)
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("login.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse login template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)

		if err := r.ParseForm(); err != nil {
			s.renderErrorPage(w, http.StatusBadRequest, "Invalid form data")
			return
		}
		username := r.FormValue("username")
		password := r.FormValue("password")

		user, err := s.auth.Login(r.Context(), username, password)
		if err != nil {
			if messages, ok := validationMessages(err); ok {
				data := LoginPageData{Page: s.newPage(r, sess, "Login"), Username: username}
				data.Flash = session.NewFlash(session.SeverityError, messages...)
				render(w, tmpl, http.StatusBadRequest, data)
				return
			}
			log.Err(err).Msg("login failed")
			s.renderErrorPage(w, http.StatusInternalServerError, "An error occurred. Please try again later.")
			return
		}

		sess.Authenticate(session.Actor{ID: user.ID, Username: user.Username, Email: user.Email})

		// Resume whatever action forced this login, defaulting to home.
		redirectTo := sess.ConsumeRedirect(RouteHome)
		sess.SetFlash(session.NewFlash(session.SeveritySuccess, "User logged in successfully."))
		http.Redirect(w, r, redirectTo, http.StatusSeeOther)
	}
}

// LogoutHandler drops the session identity (GET /logout)
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)
		sess.ClearActor()
		sess.SetFlash(session.NewFlash(session.SeveritySuccess, "User logged out successfully."))
		http.Redirect(w, r, RouteHome, http.StatusSeeOther)
	}
}
