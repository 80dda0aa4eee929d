package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bl4ckarch/assetguard/internal/command"
	"github.com/go-chi/chi/v5"
)

// CommandHandler serves command template CRUD.
type CommandHandler struct {
	Store *command.Store
}

// ListCommands returns all command templates, optionally filtered by
// ?cmd_type=.
func (h *CommandHandler) ListCommands(w http.ResponseWriter, r *http.Request) {
	var (
		list any
		err  error
	)
	if cmdType := r.URL.Query().Get("cmd_type"); cmdType != "" {
		list, err = h.Store.ListByType(r.Context(), cmdType)
	} else {
		list, err = h.Store.List(r.Context())
	}
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// CreateCommand creates a template. Body: {"tool": "...", "template": "...",
// "expects_file_input": true, "cmd_type": "subdomain_enum"}.
func (h *CommandHandler) CreateCommand(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Tool             string `json:"tool"`
		Template         string `json:"template"`
		ExpectsFileInput bool   `json:"expects_file_input"`
		CmdType          string `json:"cmd_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	cmd, err := h.Store.Create(r.Context(), input.Tool, input.Template, input.ExpectsFileInput, input.CmdType)
	if err != nil {
		JSONDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(cmd)
}

// UpdateCommand replaces a template's command text. Body: {"template": "..."}.
func (h *CommandHandler) UpdateCommand(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		JSONError(w, "invalid command id", http.StatusBadRequest)
		return
	}

	var input struct {
		Template string `json:"template"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.Store.Update(r.Context(), id, input.Template); err != nil {
		JSONDomainError(w, err)
		return
	}

	cmd, err := h.Store.Get(r.Context(), id)
	if err != nil {
		JSONDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cmd)
}

// DeleteCommand removes a template by id.
func (h *CommandHandler) DeleteCommand(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		JSONError(w, "invalid command id", http.StatusBadRequest)
		return
	}

	if err := h.Store.Delete(r.Context(), id); err != nil {
		JSONDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
