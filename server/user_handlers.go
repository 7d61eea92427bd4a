package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/hospitalmgmt/auth-service/users"
)

type createUserRequest struct {
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone,omitempty"`
	Role         string     `json:"role"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty"`
}

type updateUserRequest struct {
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone,omitempty"`
	Role         string     `json:"role"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		role := users.RoleType(req.Role)
		if req.Email == "" || req.FirstName == "" || req.LastName == "" || !role.Valid() {
			writeError(w, http.StatusBadRequest, "email, first_name, last_name and a valid role are required")
			return
		}
		if err := users.ValidatePasswordStrength(req.Password); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		hash, err := users.HashPassword(req.Password)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		user := &users.User{
			Email:        req.Email,
			PasswordHash: hash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
			Role:         role,
			DepartmentID: req.DepartmentID,
			Active:       true,
		}
		if err := s.repos.Users.Create(r.Context(), user); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, user)
	}
}

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit := pagination(r)
		list, err := s.repos.Users.List(r.Context(), offset, limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		user, err := s.repos.Users.GetByID(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req updateUserRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		role := users.RoleType(req.Role)
		if req.Email == "" || !role.Valid() {
			writeError(w, http.StatusBadRequest, "email and a valid role are required")
			return
		}

		user, err := s.repos.Users.GetByID(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		user.Email = req.Email
		user.FirstName = req.FirstName
		user.LastName = req.LastName
		user.Phone = req.Phone
		user.Role = role
		user.DepartmentID = req.DepartmentID

		if err := s.repos.Users.Update(r.Context(), user); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := s.repos.Users.Delete(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		// A deleted user must not keep refreshing.
		if err := s.sessions.RevokeAll(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// SetUserActiveHandler toggles the active flag. Deactivation also revokes
// the user's sessions, so the account is locked out on its next refresh even
// though outstanding access tokens run to their natural expiry.
func (s *Server) SetUserActiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req setActiveRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := s.repos.Users.SetActive(r.Context(), id, req.Active); err != nil {
			writeDomainError(w, err)
			return
		}
		if !req.Active {
			if err := s.sessions.RevokeAll(r.Context(), id); err != nil {
				writeDomainError(w, err)
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed id")
		return uuid.Nil, false
	}
	return id, true
}

func pagination(r *http.Request) (offset, limit int) {
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return offset, limit
}
