package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bl4ckarch/assetguard/internal/registry"
	"github.com/go-chi/chi/v5"
)

// ToolHandler serves the tool roster endpoints. Tools are seeded at database
// creation; only enabled and binary_path can change.
type ToolHandler struct {
	Registry *registry.Registry
}

// ListTools returns all known tools.
func (h *ToolHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	tools, err := h.Registry.ListTools(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tools)
}

// UpdateTool updates a tool's enabled flag and/or binary path.
// Body: {"enabled": true, "binary_path": "/opt/amass/amass"} (both optional).
func (h *ToolHandler) UpdateTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var input struct {
		Enabled    *bool   `json:"enabled"`
		BinaryPath *string `json:"binary_path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Enabled == nil && input.BinaryPath == nil {
		JSONError(w, "nothing to update", http.StatusBadRequest)
		return
	}

	if input.Enabled != nil {
		if err := h.Registry.SetToolEnabled(r.Context(), name, *input.Enabled); err != nil {
			JSONDomainError(w, err)
			return
		}
	}
	if input.BinaryPath != nil {
		if err := h.Registry.SetToolBinaryPath(r.Context(), name, *input.BinaryPath); err != nil {
			JSONDomainError(w, err)
			return
		}
	}

	tool, err := h.Registry.GetTool(r.Context(), name)
	if err != nil {
		JSONDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tool)
}
