package server

import (
	"net/http"

	"github.com/hospitalmgmt/auth-service/departments"
)

type departmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (s *Server) CreateDepartmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req departmentRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		department := &departments.Department{
			Name:        req.Name,
			Description: req.Description,
		}
		if err := s.repos.Departments.Create(r.Context(), department); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, department)
	}
}

func (s *Server) ListDepartmentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit := pagination(r)
		list, err := s.repos.Departments.List(r.Context(), offset, limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) GetDepartmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		department, err := s.repos.Departments.GetByID(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, department)
	}
}

func (s *Server) UpdateDepartmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req departmentRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		department, err := s.repos.Departments.GetByID(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		department.Name = req.Name
		department.Description = req.Description

		if err := s.repos.Departments.Update(r.Context(), department); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, department)
	}
}

func (s *Server) DeleteDepartmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := s.repos.Departments.Delete(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
