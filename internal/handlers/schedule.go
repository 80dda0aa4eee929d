package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bl4ckarch/assetguard/internal/scheduler"
	"github.com/go-chi/chi/v5"
)

// ScheduleHandler serves schedule entry CRUD.
type ScheduleHandler struct {
	Scheduler *scheduler.Scheduler
}

type scheduleInput struct {
	Hour      int    `json:"hour"`
	Minute    int    `json:"minute"`
	Day       string `json:"day"`
	CommandID int64  `json:"command_id"`
}

// ListSchedules returns all schedule entries.
func (h *ScheduleHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Scheduler.ListEntries(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// CreateSchedule creates an entry. Body: {"hour": 2, "minute": 0,
// "day": "monday", "command_id": 1}; day empty or absent means every day.
func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var input scheduleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	entry, err := h.Scheduler.CreateEntry(r.Context(), input.Hour, input.Minute, input.Day, input.CommandID)
	if err != nil {
		JSONDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

// UpdateSchedule rewrites an entry.
func (h *ScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		JSONError(w, "invalid schedule id", http.StatusBadRequest)
		return
	}

	var input scheduleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.Scheduler.UpdateEntry(r.Context(), id, input.Hour, input.Minute, input.Day, input.CommandID); err != nil {
		JSONDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteSchedule removes an entry.
func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		JSONError(w, "invalid schedule id", http.StatusBadRequest)
		return
	}

	if err := h.Scheduler.DeleteEntry(r.Context(), id); err != nil {
		JSONDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
