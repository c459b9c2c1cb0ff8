package report

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"workorders/internal/api"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handlers struct {
	Gen *Generator
}

func parseRange(r *http.Request) (from, to time.Time, err error) {
	q := r.URL.Query()
	from, err = time.Parse(dateLayout, q.Get("from"))
	if err != nil {
		return from, to, fmt.Errorf("from must be YYYY-MM-DD")
	}
	to, err = time.Parse(dateLayout, q.Get("to"))
	if err != nil {
		return from, to, fmt.Errorf("to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return from, to, fmt.Errorf("to must not precede from")
	}
	return from, to, nil
}

func writeWorkbook(w http.ResponseWriter, f *excelize.File, filename string) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		// Headers are already gone; nothing sensible left to send.
		return
	}
}

func (h Handlers) Progress(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	rep, err := h.Gen.Progress(r.Context(), from, to)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "json") {
		api.WriteJSON(w, http.StatusOK, rep)
		return
	}

	f, err := ProgressWorkbook(rep)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	name := fmt.Sprintf("progress_%s_%s.xlsx", from.Format(dateLayout), to.Format(dateLayout))
	writeWorkbook(w, f, name)
}

func (h Handlers) Technicians(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	rows, err := h.Gen.TechnicianPerformance(r.Context(), from, to)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "xlsx") {
		f, err := TechnicianWorkbook(rows, from, to)
		if err != nil {
			api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
			return
		}
		name := fmt.Sprintf("technicians_%s_%s.xlsx", from.Format(dateLayout), to.Format(dateLayout))
		writeWorkbook(w, f, name)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"from": from, "to": to, "items": rows})
}
