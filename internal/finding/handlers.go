package finding

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"workorders/internal/api"
	"workorders/pkg/db"
)

type Handlers struct {
	DB   db.Pool
	Repo *Repository
}

type CreateRequest struct {
	Description string `json:"description"`
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
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

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

	f, err := h.Repo.Insert(r.Context(), woID, strings.TrimSpace(req.Description), u.ID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, f)
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
		items = []Finding{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	woID, ok := parseWorkOrderID(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}
	fid, err := strconv.ParseInt(chi.URLParam(r, "findingID"), 10, 64)
	if err != nil || fid <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid finding id")
		return
	}

	ok, err = h.Repo.Delete(r.Context(), woID, fid)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if !ok {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "finding not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
