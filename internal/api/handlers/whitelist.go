package handlers

import (
	"net/http"

	"github.com/nikhilbhutani/tubefilter/internal/filter"
)

func (h *AdminHandler) ListWhitelist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListWhitelist(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"whitelist": entries, "count": len(entries)})
}

type whitelistRequest struct {
	ExternalID string `json:"youtubeId"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	Reason     string `json:"reason"`
}

func (h *AdminHandler) AddWhitelist(w http.ResponseWriter, r *http.Request) {
	var req whitelistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := filter.ValidateWhitelistInput(req.ExternalID, req.Type, req.Title)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	entry, err := h.svc.AddToWhitelist(r.Context(), req.ExternalID, t, req.Title, req.Reason)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"entry": entry})
}

// RemoveWhitelist deletes by ?youtubeId=&type=.
func (h *AdminHandler) RemoveWhitelist(w http.ResponseWriter, r *http.Request) {
	externalID := r.URL.Query().Get("youtubeId")
	if externalID == "" {
		writeError(w, http.StatusBadRequest, "youtubeId required")
		return
	}
	t, err := filter.ParseContentType(r.URL.Query().Get("type"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	removed, err := h.svc.RemoveFromWhitelist(r.Context(), externalID, t)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "whitelist entry not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"removed": true})
}
