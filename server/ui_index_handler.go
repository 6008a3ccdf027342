package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// IndexHandler renders the home page (GET /)
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("home.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse home template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)
		render(w, tmpl, http.StatusOK, s.newPage(r, sess, "Home"))
	}
}

// AboutHandler renders the about page (GET /about)
func (s *Server) AboutHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("about.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse about template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)
		render(w, tmpl, http.StatusOK, s.newPage(r, sess, "About"))
	}
}
