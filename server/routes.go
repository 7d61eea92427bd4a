package server

import (
	"net/http"

	"github.com/hospitalmgmt/auth-service/users"
)

func (s *Server) initRoutes() {
	api := s.APIMiddleware()
	authed := append(s.APIMiddleware(), s.RequireAuth)
	admin := append(s.APIMiddleware(), s.RequireAuth, s.RequireRole(users.RoleAdmin))

	// Authentication
	s.RegisterRouteFunc("POST /auth/login", ChainMiddleware(s.LoginHandler(), api...))
	s.RegisterRouteFunc("POST /auth/refresh", ChainMiddleware(s.RefreshHandler(), api...))
	s.RegisterRouteFunc("POST /auth/logout", ChainMiddleware(s.LogoutHandler(), authed...))
	s.RegisterRouteFunc("GET /auth/me", ChainMiddleware(s.MeHandler(), authed...))
	s.RegisterRouteFunc("GET /auth/sessions", ChainMiddleware(s.SessionsHandler(), authed...))

	// User management
	s.RegisterRouteFunc("POST /users", ChainMiddleware(s.CreateUserHandler(), admin...))
	s.RegisterRouteFunc("GET /users", ChainMiddleware(s.ListUsersHandler(), admin...))
	s.RegisterRouteFunc("GET /users/{id}", ChainMiddleware(s.GetUserHandler(), admin...))
	s.RegisterRouteFunc("PUT /users/{id}", ChainMiddleware(s.UpdateUserHandler(), admin...))
	s.RegisterRouteFunc("DELETE /users/{id}", ChainMiddleware(s.DeleteUserHandler(), admin...))
	s.RegisterRouteFunc("PUT /users/{id}/active", ChainMiddleware(s.SetUserActiveHandler(), admin...))

	// Department management
	s.RegisterRouteFunc("POST /departments", ChainMiddleware(s.CreateDepartmentHandler(), admin...))
	s.RegisterRouteFunc("GET /departments", ChainMiddleware(s.ListDepartmentsHandler(), authed...))
	s.RegisterRouteFunc("GET /departments/{id}", ChainMiddleware(s.GetDepartmentHandler(), authed...))
	s.RegisterRouteFunc("PUT /departments/{id}", ChainMiddleware(s.UpdateDepartmentHandler(), admin...))
	s.RegisterRouteFunc("DELETE /departments/{id}", ChainMiddleware(s.DeleteDepartmentHandler(), admin...))

	s.RegisterRouteFunc("GET /healthz", ChainMiddleware(s.HealthHandler(), api...))
}

// HealthHandler reports process liveness.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
