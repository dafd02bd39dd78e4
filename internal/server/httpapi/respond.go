package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oxylize/api/internal/common"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto HTTP statuses. Anything outside
// the taxonomy becomes a generic 500 so driver details never leak.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request"})
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenRevoked),
		errors.Is(err, common.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "unauthorized"})
	case errors.Is(err, common.ErrAccessDenied):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: "access denied"})
	case errors.Is(err, common.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "not found"})
	case errors.Is(err, common.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Message: "conflict"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrValidation
	}
	return nil
}
