package server

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-unique-login/auth"
	"github.com/jrsteele09/go-unique-login/internal/config"
	"github.com/jrsteele09/go-unique-login/sessions"
)

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	redeemer *auth.RedemptionService
	sessions *sessions.Manager
}

func New(cfg config.Config, repos auth.Repos, sessionManager *sessions.Manager) (*Server, error) {
	redeemer, err := auth.NewRedemptionService(repos, sessionManager)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create redemption service: %w", err)
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		redeemer: redeemer,
		sessions: sessionManager,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	for _, route := range s.routes {
		log.Debug().Str("route", route).Msg("Registered route")
	}
}
