package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bl4ckarch/assetguard/internal/audit"
)

// AuditHandler serves audit log endpoints.
type AuditHandler struct {
	Log *audit.Log
}

// ListLogs returns recent audit entries, newest first. Query: limit (default
// 50, max 200), offset (default 0).
func (h *AuditHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 200 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	entries, err := h.Log.List(r.Context(), limit, offset)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// ClearLogs truncates the whole audit log. There is no selective deletion.
func (h *AuditHandler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	if err := h.Log.Clear(r.Context()); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
