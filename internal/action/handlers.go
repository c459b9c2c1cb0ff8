package action

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"workorders/internal/api"
	"workorders/pkg/db"
)

type Handlers struct {
	DB   db.Pool
	Repo *Repository
}

type CreateRequest struct {
	Description     string `json:"description"`
	StartedAt       string `json:"startedAt,omitempty"` // RFC 3339
	EndedAt         string `json:"endedAt,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Completed       bool   `json:"completed"`
}

func workOrderExists(r *http.Request, pool db.Pool, id int64) bool {
	const q = `SELECT 1 FROM work_orders WHERE id = $1`
	var one int
	return pool.QueryRow(r.Context(), q, id).Scan(&one) == nil
}

func parseWorkOrderID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func parseOptionalTime(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	woID, ok := parseWorkOrderID(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}
	if !workOrderExists(r, h.DB, woID) {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "work order not found")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "description is required")
		return
	}

	startedAt, ok := parseOptionalTime(req.StartedAt)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "startedAt must be RFC 3339")
		return
	}
	endedAt, ok := parseOptionalTime(req.EndedAt)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "endedAt must be RFC 3339")
		return
	}

	a, err := h.Repo.Insert(r.Context(), CreateInput{
		WorkOrderID:     woID,
		Description:     strings.TrimSpace(req.Description),
		StartedAt:       startedAt,
		EndedAt:         endedAt,
		DurationMinutes: DeriveDuration(startedAt, endedAt, req.DurationMinutes),
		Completed:       req.Completed,
	})
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, a)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	woID, ok := parseWorkOrderID(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}
	if !workOrderExists(r, h.DB, woID) {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "work order not found")
		return
	}

	items, err := h.Repo.ListByWorkOrder(r.Context(), woID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []Action{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	woID, ok := parseWorkOrderID(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}
	aid, err := strconv.ParseInt(chi.URLParam(r, "actionID"), 10, 64)
	if err != nil || aid <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid action id")
		return
	}

	ok, err = h.Repo.Delete(r.Context(), woID, aid)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if !ok {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "action not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
