package technician

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"workorders/internal/api"
)

type Handlers struct {
	Repo *Repository
}

type CreateRequest struct {
	Name       string `json:"name"`
	EmployeeNo string `json:"employeeNo"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.EmployeeNo = strings.TrimSpace(req.EmployeeNo)
	if req.Name == "" || req.EmployeeNo == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "name and employeeNo are required")
		return
	}

	t, err := h.Repo.Create(r.Context(), req.Name, req.EmployeeNo)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, t)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []Technician{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type AssignRequest struct {
	TechnicianID int64 `json:"technicianId"`
}

func actionIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "actionID"), 10, 64)
	return id, err == nil && id > 0
}

func (h Handlers) Assign(w http.ResponseWriter, r *http.Request) {
	actionID, ok := actionIDParam(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid action id")
		return
	}

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if req.TechnicianID <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "technicianId is required")
		return
	}

	a, err := h.Repo.Assign(r.Context(), actionID, req.TechnicianID)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, a)
}

func (h Handlers) Unassign(w http.ResponseWriter, r *http.Request) {
	actionID, ok := actionIDParam(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid action id")
		return
	}
	techID, err := strconv.ParseInt(chi.URLParam(r, "technicianID"), 10, 64)
	if err != nil || techID <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid technician id")
		return
	}

	removed, err := h.Repo.Unassign(r.Context(), actionID, techID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if !removed {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "assignment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) ListByAction(w http.ResponseWriter, r *http.Request) {
	actionID, ok := actionIDParam(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid action id")
		return
	}

	items, err := h.Repo.ListByAction(r.Context(), actionID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []Assignment{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}
