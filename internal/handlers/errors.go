package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bl4ckarch/assetguard/internal/apperr"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONDomainError maps a core error to its HTTP status: validation -> 400,
// not found -> 404, conflict -> 409, anything else -> 500. Validation
// responses carry the offending field so the caller can correct input.
func JSONDomainError(w http.ResponseWriter, err error) {
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error":  verr.Error(),
			"fields": map[string]string{verr.Field: verr.Reason},
		})
		return
	}

	var nerr *apperr.NotFoundError
	if errors.As(err, &nerr) {
		JSONError(w, nerr.Error(), http.StatusNotFound)
		return
	}

	var cerr *apperr.ConflictError
	if errors.As(err, &cerr) {
		JSONError(w, cerr.Error(), http.StatusConflict)
		return
	}

	slog.Error("request failed", "error", err)
	JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
}
