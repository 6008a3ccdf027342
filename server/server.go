package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-lending-server/auth"
	"github.com/jrsteele09/go-lending-server/catalog"
	"github.com/jrsteele09/go-lending-server/internal/config"
	"github.com/jrsteele09/go-lending-server/lending"
	"github.com/jrsteele09/go-lending-server/session"
	"github.com/jrsteele09/go-lending-server/users"
)

// Stores collects the persistence boundaries the server runs on. Both the
// in-memory and the Postgres implementations satisfy these.
type Stores struct {
	Users users.UserRepo
	Books catalog.BookRepo
	Loans lending.LoanRepo
}

type Server struct {
	env        string // Environment (e.g., "DEV", "production")
	mux        *http.ServeMux
	routes     []string
	fileServer http.Handler
	config     config.Config
	sessions   *session.Codec
	auth       *auth.Service
	lending    *lending.Service
	books      catalog.BookRepo
	loans      lending.LoanRepo
}

func New(cfg config.Config, stores Stores) (*Server, error) {
	// The session secret is a deployment precondition: refusing to start
	// beats handing out unverifiable cookies.
	codec, err := session.NewCodec(cfg.GetSessionSecret(), cfg.GetSessionTTL())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create session codec: %w", err)
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		sessions: codec,
		auth:     auth.NewService(stores.Users),
		lending:  lending.NewService(stores.Books, stores.Loans),
		books:    stores.Books,
		loans:    stores.Loans,
	}
	s.env = cfg.GetEnv()
	s.fileServer = FileServerHandler()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
