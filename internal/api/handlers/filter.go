package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/nikhilbhutani/tubefilter/internal/filter"
	"github.com/nikhilbhutani/tubefilter/internal/models"
)

// maxBatchItems bounds a single batch request.
const maxBatchItems = 500

type FilterHandler struct {
	svc *filter.Service
}

func NewFilterHandler(svc *filter.Service) *FilterHandler {
	return &FilterHandler{svc: svc}
}

func (h *FilterHandler) Check(w http.ResponseWriter, r *http.Request) {
	var d models.ContentDescriptor
	if err := decodeJSON(w, r, &d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateDescriptor(d); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	verdict, err := h.svc.FilterContent(r.Context(), d)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

type batchRequest struct {
	Items []models.ContentDescriptor `json:"items"`
}

func (h *FilterHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) > maxBatchItems {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d items per batch", maxBatchItems))
		return
	}
	for i, d := range req.Items {
		if err := validateDescriptor(d); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("items[%d]: %v", i, err))
			return
		}
	}

	res, err := h.svc.FilterBatch(r.Context(), req.Items)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func validateDescriptor(d models.ContentDescriptor) error {
	if strings.TrimSpace(d.ExternalID) == "" {
		return fmt.Errorf("youtubeId required")
	}
	if _, err := filter.ParseContentType(string(d.Type)); err != nil {
		return err
	}
	return nil
}
