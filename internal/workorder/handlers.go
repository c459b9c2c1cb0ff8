package workorder

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"workorders/internal/action"
	"workorders/internal/api"
	"workorders/internal/finding"
	"workorders/internal/sparepart"
	"workorders/internal/user"
	"workorders/pkg/db"
)

const dateLayout = "2006-01-02"

type Handlers struct {
	DB         db.Pool
	Orders     *Repository
	Lifecycle  *Manager
	Findings   *finding.Repository
	Actions    *action.Repository
	SpareParts *sparepart.Repository
}

type CreateRequest struct {
	WorkOrderNo   string   `json:"workOrderNo"`
	WorkOrderDate string   `json:"workOrderDate"` // YYYY-MM-DD
	Equipment     string   `json:"equipment"`
	UsageHours    *float64 `json:"usageHours,omitempty"`
	Description   string   `json:"description,omitempty"`
	WorkType      string   `json:"workType"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	req.WorkOrderNo = strings.TrimSpace(req.WorkOrderNo)
	req.Equipment = strings.TrimSpace(req.Equipment)
	req.WorkType = strings.TrimSpace(req.WorkType)
	if req.WorkOrderNo == "" || req.Equipment == "" || req.WorkType == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "workOrderNo, equipment and workType are required")
		return
	}

	woDate, err := time.Parse(dateLayout, req.WorkOrderDate)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "workOrderDate must be YYYY-MM-DD")
		return
	}

	wo, err := h.Orders.Create(r.Context(), CreateInput{
		WorkOrderNo:   req.WorkOrderNo,
		WorkOrderDate: woDate,
		Equipment:     req.Equipment,
		UsageHours:    req.UsageHours,
		Description:   strings.TrimSpace(req.Description),
		WorkType:      req.WorkType,
		RequestedBy:   u.ID,
	})
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, wo)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := Filter{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.PerPage, _ = strconv.Atoi(q.Get("perPage"))

	for param, dst := range map[string]**time.Time{"from": &f.DateFrom, "to": &f.DateTo} {
		if v := q.Get(param); v != "" {
			t, err := time.Parse(dateLayout, v)
			if err != nil {
				api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", param+" must be YYYY-MM-DD")
				return
			}
			*dst = &t
		}
	}

	page, err := h.Orders.List(r.Context(), f)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, page)
}

func (h Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Orders.StatusCounts(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"counts": counts})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	wo, err := h.Orders.GetByID(r.Context(), id)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	findings, err := h.Findings.ListByWorkOrder(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	actions, err := h.Actions.ListByWorkOrder(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	parts, err := h.SpareParts.ListByWorkOrder(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	if findings == nil {
		findings = []finding.Finding{}
	}
	if actions == nil {
		actions = []action.Action{}
	}
	if parts == nil {
		parts = []sparepart.SparePart{}
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"workOrder":  wo,
		"findings":   findings,
		"actions":    actions,
		"spareParts": parts,
	})
}

type UpdateRequest struct {
	WorkOrderDate *string  `json:"workOrderDate,omitempty"`
	Equipment     *string  `json:"equipment,omitempty"`
	UsageHours    *float64 `json:"usageHours,omitempty"`
	Description   *string  `json:"description,omitempty"`
	WorkType      *string  `json:"workType,omitempty"`
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	id, ok := idParam(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	existing, err := h.Orders.GetByID(r.Context(), id)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	if existing.RequestedBy != u.ID && !u.Role.AtLeast(user.RoleAdmin) {
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "only the requester or an admin can edit")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	var in UpdateInput
	if req.WorkOrderDate != nil {
		t, err := time.Parse(dateLayout, *req.WorkOrderDate)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "workOrderDate must be YYYY-MM-DD")
			return
		}
		in.WorkOrderDate = &t
	}
	in.Equipment = req.Equipment
	in.UsageHours = req.UsageHours
	in.Description = req.Description
	in.WorkType = req.WorkType

	wo, err := h.Orders.UpdateHeader(r.Context(), id, in)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, wo)
}

type TransitionRequest struct {
	Reason            string `json:"reason,omitempty"`
	WorkCompletedDate string `json:"workCompletedDate,omitempty"` // YYYY-MM-DD
}

// Transition returns a handler applying the given lifecycle event. All six
// transition endpoints share it; the event is fixed at route registration.
func (h Handlers) Transition(ev Event) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := api.UserFromContext(r.Context())
		if u == nil {
			api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
			return
		}

		id, ok := idParam(r)
		if !ok {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
			return
		}

		var req TransitionRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
				return
			}
		}

		in := TransitionInput{Reason: req.Reason}
		if req.WorkCompletedDate != "" {
			t, err := time.Parse(dateLayout, req.WorkCompletedDate)
			if err != nil {
				api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "workCompletedDate must be YYYY-MM-DD")
				return
			}
			in.WorkCompletedDate = &t
		}

		wo, err := h.Lifecycle.Apply(r.Context(), id, ev, u, in)
		if err != nil {
			api.WriteAppError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, wo)
	}
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
