package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/nikhilbhutani/tubefilter/internal/audit"
	"github.com/nikhilbhutani/tubefilter/internal/models"
)

type AuditReader interface {
	GetAuditLogs(ctx context.Context, q audit.Query) ([]models.AuditLog, error)
}

type AuditHandler struct {
	logs AuditReader
}

// NewAuditHandler accepts a nil reader when no database is configured.
func NewAuditHandler(logs AuditReader) *AuditHandler {
	return &AuditHandler{logs: logs}
}

func (h *AuditHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	if h.logs == nil {
		writeError(w, http.StatusNotImplemented, "audit log requires a database")
		return
	}

	q := audit.Query{
		Action: r.URL.Query().Get("action"),
	}

	q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	q.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if q.Limit <= 0 || q.Limit > 500 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "start_date must be RFC3339")
			return
		}
		q.StartDate = &t
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "end_date must be RFC3339")
			return
		}
		q.EndDate = &t
	}

	logs, err := h.logs.GetAuditLogs(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"audit_logs": logs, "count": len(logs)})
}
