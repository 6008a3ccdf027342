package server

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/jrsteele09/go-lending-server/internal/errors"
	"github.com/jrsteele09/go-lending-server/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the per-request session draft
const ContextKeySession ContextKey = "session"

// SessionMiddleware reconstructs the session from the inbound cookie and
// funnels every mutation through a single commit point: the draft is
// serialized into the outbound cookie exactly once, right before the first
// byte of the response goes out. Handlers never write the cookie
// themselves, so there are no competing saves to race each other.
//
// A missing, invalid or expired token all yield an empty session; the
// distinction is logged and goes no further.
func (s *Server) SessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var data session.Data
		if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
			data, err = s.sessions.Decode(cookie.Value)
			if err != nil {
				if apperrors.Is(err, apperrors.ErrTokenExpired) {
					log.Debug().Str("path", r.URL.Path).Msg("session token expired")
				} else {
					log.Warn().Str("path", r.URL.Path).Msg("session token failed verification")
				}
				data = session.Data{}
			}
		}

		sess := session.NewContext(data)
		ctx := context.WithValue(r.Context(), ContextKeySession, sess)

		sw := &sessionWriter{
			ResponseWriter: w,
			server:         s,
			sess:           sess,
			secure:         getScheme(r) == "https",
		}
		next(sw, r.WithContext(ctx))

		// Handlers that produced no output still get their mutations
		// persisted.
		sw.commit()
	}
}

// session returns the request's session draft. Routes outside the session
// middleware get a throwaway anonymous draft rather than a nil.
func (s *Server) session(r *http.Request) *session.Context {
	if sess, ok := r.Context().Value(ContextKeySession).(*session.Context); ok {
		return sess
	}
	return session.NewContext(session.Data{})
}

// sessionWriter defers cookie serialization until the response headers are
// about to flush. Whatever the draft holds at that moment is what the
// client keeps; fields set then cleared within the request never leave the
// process.
type sessionWriter struct {
	http.ResponseWriter
	server    *Server
	sess      *session.Context
	secure    bool
	committed bool
}

func (w *sessionWriter) WriteHeader(statusCode int) {
	w.commit()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true

	token, err := w.server.sessions.Encode(w.sess.Snapshot())
	if err != nil {
		log.Err(err).Msg("failed to encode session token")
		session.ClearCookie(w.ResponseWriter, w.secure)
		return
	}
	session.WriteCookie(w.ResponseWriter, token, w.server.sessions.TTL(), w.secure)
}
