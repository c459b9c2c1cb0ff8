package sparepart

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"workorders/internal/api"
	"workorders/pkg/db"
)

type Handlers struct {
	DB   db.Pool
	Repo *Repository
}

type CreateRequest struct {
	PartNo      string `json:"partNo"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitCost    string `json:"unitCost,omitempty"` // decimal string, e.g. "12.50"
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
	if strings.TrimSpace(req.PartNo) == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "partNo is required")
		return
	}
	if req.Quantity <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "quantity must be positive")
		return
	}

	unitCost := decimal.Zero
	if req.UnitCost != "" {
		var err error
		unitCost, err = decimal.NewFromString(req.UnitCost)
		if err != nil || unitCost.IsNegative() {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "unitCost must be a non-negative decimal")
			return
		}
	}

	p, err := h.Repo.Insert(r.Context(), woID, strings.TrimSpace(req.PartNo), strings.TrimSpace(req.Description), req.Quantity, unitCost)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, p)
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
		items = []SparePart{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"items":     items,
		"totalCost": TotalCost(items).String(),
	})
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	woID, ok := parseWorkOrderID(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}
	pid, err := strconv.ParseInt(chi.URLParam(r, "partID"), 10, 64)
	if err != nil || pid <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid part id")
		return
	}

	ok, err = h.Repo.Delete(r.Context(), woID, pid)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if !ok {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "spare part not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
