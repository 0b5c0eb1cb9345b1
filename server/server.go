package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/arcash/auth"
	"github.com/jrsteele09/arcash/bank"
	"github.com/jrsteele09/arcash/internal/config"
	"github.com/jrsteele09/arcash/token"
)

// Services are the domain services the HTTP layer exposes.
type Services struct {
	Auth   *auth.Service
	Bank   *bank.Service
	Tokens *token.Manager
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	auth     *auth.Service
	bank     *bank.Service
	tokens   *token.Manager
	secureCk bool // refresh cookie marked Secure
}

func New(config config.Config, services Services) (*Server, error) {
	if services.Auth == nil {
		return nil, fmt.Errorf("[Server New] auth service is required")
	}
	if services.Bank == nil {
		return nil, fmt.Errorf("[Server New] bank service is required")
	}
	if services.Tokens == nil {
		return nil, fmt.Errorf("[Server New] token manager is required")
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: config,
		auth:   services.Auth,
		bank:   services.Bank,
		tokens: services.Tokens,
	}
	s.env = config.GetEnv()
	s.secureCk = s.env != "DEV"

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

// Routes returns the registered route patterns in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
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
