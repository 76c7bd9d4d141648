package handlers

import (
	"net/http"

	"github.com/nikhilbhutani/tubefilter/internal/filter"
)

func (h *AdminHandler) ListKeywords(w http.ResponseWriter, r *http.Request) {
	kws, err := h.svc.ListBlockedKeywords(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"keywords": kws, "count": len(kws)})
}

type keywordRequest struct {
	Keyword string `json:"keyword"`
}

func (h *AdminHandler) AddKeyword(w http.ResponseWriter, r *http.Request) {
	var req keywordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kw, err := filter.ValidateKeyword(req.Keyword)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	kws, err := h.svc.AddBlockedKeyword(r.Context(), kw)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"keywords": kws})
}

// RemoveKeyword deletes by ?keyword=, ignoring case.
func (h *AdminHandler) RemoveKeyword(w http.ResponseWriter, r *http.Request) {
	kw := r.URL.Query().Get("keyword")
	if kw == "" {
		writeError(w, http.StatusBadRequest, "keyword required")
		return
	}

	removed, kws, err := h.svc.RemoveBlockedKeyword(r.Context(), kw)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "keyword not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"removed": true, "keywords": kws})
}
