package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bl4ckarch/assetguard/internal/registry"
	"github.com/go-chi/chi/v5"
)

// TargetHandler serves target CRUD endpoints.
type TargetHandler struct {
	Registry *registry.Registry
}

// ListTargets returns all targets ordered by domain.
func (h *TargetHandler) ListTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.Registry.ListTargets(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(targets)
}

// AddTarget creates a target. Body: {"domain": "...", "program_url": "...", "enabled": true}.
func (h *TargetHandler) AddTarget(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Domain     string `json:"domain"`
		ProgramURL string `json:"program_url"`
		Enabled    *bool  `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	target, err := h.Registry.AddTarget(r.Context(), input.Domain, input.ProgramURL, enabled)
	if err != nil {
		JSONDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(target)
}

// ToggleTarget flips a target's enabled flag and returns the new state.
func (h *TargetHandler) ToggleTarget(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")

	enabled, err := h.Registry.ToggleTarget(r.Context(), domain)
	if err != nil {
		JSONDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"domain": domain, "enabled": enabled})
}

// DeleteTarget removes a target by domain.
func (h *TargetHandler) DeleteTarget(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")

	if err := h.Registry.DeleteTarget(r.Context(), domain); err != nil {
		JSONDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
