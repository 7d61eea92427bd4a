package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hospitalmgmt/auth-service/auth"
	"github.com/hospitalmgmt/auth-service/departments"
	"github.com/hospitalmgmt/auth-service/internal/config"
	"github.com/hospitalmgmt/auth-service/sessions"
	"github.com/hospitalmgmt/auth-service/users"
)

// Repos holds the repositories the management endpoints work against.
type Repos struct {
	Users       users.Repo
	Departments departments.Repo
}

type Server struct {
	env      string
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	auth     *auth.Service
	sessions *sessions.Service
	repos    Repos
}

func New(cfg config.Config, repos Repos, authService *auth.Service, sessionService *sessions.Service) *Server {
	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		config:   cfg,
		auth:     authService,
		sessions: sessionService,
		repos:    repos,
	}
	s.initRoutes()
	s.logRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		log.Debug().Str("route", route).Msg("registered")
	}
}
