package handlers

import (
	"net/http"

	"github.com/nikhilbhutani/tubefilter/internal/filter"
)

// AdminHandler manages the filter configuration: flags, categories, whitelist and
// blocked keywords.
type AdminHandler struct {
	svc *filter.Service
}

func NewAdminHandler(svc *filter.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Config(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"config": cfg, "stats": filter.ComputeStats(cfg)})
}

type flagsRequest struct {
	Enabled     *bool `json:"enabled"`
	DefaultDeny *bool `json:"defaultDeny"`
}

// PatchFlags toggles the master switch and/or the default policy.
func (h *AdminHandler) PatchFlags(w http.ResponseWriter, r *http.Request) {
	var req flagsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Enabled == nil && req.DefaultDeny == nil {
		writeError(w, http.StatusBadRequest, "enabled or defaultDeny required")
		return
	}

	ctx := r.Context()
	if req.Enabled != nil {
		if _, err := h.svc.SetEnabled(ctx, *req.Enabled); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	if req.DefaultDeny != nil {
		if _, err := h.svc.SetDefaultDeny(ctx, *req.DefaultDeny); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	cfg, err := h.svc.Config(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"config": cfg, "stats": filter.ComputeStats(cfg)})
}

// ReplaceConfig merges the provided top-level fields over the stored configuration.
func (h *AdminHandler) ReplaceConfig(w http.ResponseWriter, r *http.Request) {
	var patch filter.ConfigPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg, err := h.svc.ReplaceConfig(r.Context(), patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"config": cfg, "stats": filter.ComputeStats(cfg)})
}

func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, allowed, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": cats, "allowedCategories": allowed})
}

type categoriesRequest struct {
	Categories []string `json:"categories"`
}

func (h *AdminHandler) UpdateCategories(w http.ResponseWriter, r *http.Request) {
	var req categoriesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Categories == nil {
		writeError(w, http.StatusBadRequest, "categories required")
		return
	}

	ids, err := filter.ParseCategories(req.Categories)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	allowed, err := h.svc.UpdateAllowedCategories(r.Context(), ids)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"allowedCategories": allowed})
}

type toggleCategoryRequest struct {
	Category string `json:"category"`
	Enabled  *bool  `json:"enabled"`
}

func (h *AdminHandler) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	var req toggleCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := filter.ParseCategory(req.Category)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled required")
		return
	}

	allowed, err := h.svc.SetCategoryEnabled(r.Context(), id, *req.Enabled)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"allowedCategories": allowed})
}
