package document

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"workorders/internal/api"
	"workorders/internal/apperr"
	"workorders/pkg/db"
)

type Handlers struct {
	DB    db.Pool
	Store *Store
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// Upload stores a new reference document for a work order, replacing any
// previous one. The file reaches disk before the row update; the superseded
// file is removed best-effort after commit.
func (h Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Store.MaxSize)
	if err := r.ParseMultipartForm(h.Store.MaxSize); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid or oversized multipart body")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "document file is required")
		return
	}
	defer file.Close()

	stored, err := h.Store.Save(file, header.Filename, header.Size)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	var previous *string
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		const qSel = `SELECT reference_document FROM work_orders WHERE id = $1 FOR UPDATE`
		if err := tx.QueryRow(r.Context(), qSel, id).Scan(&previous); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.ErrNotFound
			}
			return err
		}
		const qUpd = `UPDATE work_orders SET reference_document = $2, updated_at = NOW() WHERE id = $1`
		_, err := tx.Exec(r.Context(), qUpd, id, stored)
		return err
	})
	if err != nil {
		// The just-written file is now orphaned; clean it up best-effort.
		h.Store.Remove(stored)
		api.WriteAppError(w, err)
		return
	}

	if previous != nil {
		h.Store.Remove(*previous)
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"referenceDocument": stored})
}

func (h Handlers) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	var name *string
	const q = `SELECT reference_document FROM work_orders WHERE id = $1`
	if err := h.DB.QueryRow(r.Context(), q, id).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "work order not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if name == nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no reference document")
		return
	}

	p, err := h.Store.Path(*name)
	if err != nil {
		api.WriteAppError(w, err)
		return
	}
	http.ServeFile(w, r, p)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	var previous *string
	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		const qSel = `SELECT reference_document FROM work_orders WHERE id = $1 FOR UPDATE`
		if err := tx.QueryRow(r.Context(), qSel, id).Scan(&previous); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.ErrNotFound
			}
			return err
		}
		const qUpd = `UPDATE work_orders SET reference_document = NULL, updated_at = NOW() WHERE id = $1`
		_, err := tx.Exec(r.Context(), qUpd, id)
		return err
	})
	if err != nil {
		api.WriteAppError(w, err)
		return
	}

	if previous != nil {
		h.Store.Remove(*previous)
	}
	w.WriteHeader(http.StatusNoContent)
}
