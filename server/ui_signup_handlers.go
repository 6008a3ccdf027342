package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-lending-server/auth"
	"github.com/jrsteele09/go-lending-server/session"
)

// RegisterPageData contains data for rendering the registration page
type RegisterPageData struct {
	Page
	Username string // Preserve form fields on error
	Email    string
}

// RegisterPageHandler displays the registration page (GET /register)
func (s *Server) RegisterPageHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("register.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse register template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)
		render(w, tmpl, http.StatusOK, RegisterPageData{Page: s.newPage(r, sess, "Register")})
	}
}

// RegisterSubmissionHandler processes the registration form (POST /register)
func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("register.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse register template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)

		if err := r.ParseForm(); err != nil {
			s.renderErrorPage(w, http.StatusBadRequest, "Invalid form data")
			return
		}

		reg := auth.Registration{
			Username:        r.FormValue("username"),
			Email:           r.FormValue("email"),
			Password:        r.FormValue("password"),
			ConfirmPassword: r.FormValue("confirmPassword"),
		}

		user, err := s.auth.Register(r.Context(), reg)
		if err != nil {
			if messages, ok := validationMessages(err); ok {
				data := RegisterPageData{
					Page:     s.newPage(r, sess, "Register"),
					Username: reg.Username,
					Email:    reg.Email,
				}
				data.Flash = session.NewFlash(session.SeverityError, messages...)
				render(w, tmpl, http.StatusBadRequest, data)
				return
			}
			log.Err(err).Msg("registration failed")
			s.renderErrorPage(w, http.StatusInternalServerError, "Internal server error.")
			return
		}

		// Registered but not logged in yet; the login page is next.
		sess.MarkRegistered(session.Actor{ID: user.ID, Username: user.Username, Email: user.Email})
		sess.SetFlash(session.NewFlash(session.SeveritySuccess, "User registered successfully."))
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}
