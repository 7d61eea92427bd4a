package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hospitalmgmt/auth-service/auth"
	"github.com/hospitalmgmt/auth-service/departments"
	"github.com/hospitalmgmt/auth-service/sessions"
	"github.com/hospitalmgmt/auth-service/token"
	"github.com/hospitalmgmt/auth-service/users"
)

const contentTypeJSON = "application/json; charset=utf-8"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

// writeDomainError maps the typed domain failures onto HTTP statuses. The
// response bodies stay generic: a caller never learns which of the
// indistinguishable cases applied.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, sessions.ErrInvalidSession):
		writeError(w, http.StatusUnauthorized, "invalid or expired session")
	case errors.Is(err, auth.ErrAccountInactive):
		writeError(w, http.StatusForbidden, "account inactive")
	case errors.Is(err, token.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, users.ErrNotFound), errors.Is(err, departments.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, users.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email already in use")
	case errors.Is(err, departments.ErrNameTaken):
		writeError(w, http.StatusConflict, "name already in use")
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
