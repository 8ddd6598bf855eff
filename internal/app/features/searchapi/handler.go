// Package searchapi exposes the public query surface: ranked search,
// facets, and trending.
package searchapi

import (
	"net/http"
	"strings"

	"github.com/opencurio/resourcehub/internal/app/features/shared"
	"github.com/opencurio/resourcehub/internal/app/search"
	"github.com/opencurio/resourcehub/internal/app/system/auth"
	"github.com/opencurio/resourcehub/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Search *search.Service
	Log    *zap.Logger
}

func NewHandler(svc *search.Service, logger *zap.Logger) *Handler {
	return &Handler{Search: svc, Log: logger}
}

// Serve handles GET /search. Filters come from query parameters; tags may
// repeat or arrive comma-separated. Anonymous callers only ever see the
// approved catalog; a non-approved status filter requires an admin.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := search.Request{
		Query:        q.Get("q"),
		Status:       q.Get("status"),
		Category:     q.Get("category"),
		ResourceType: q.Get("resource_type"),
		Tags:         splitTags(q["tags"]),
		Difficulty:   q.Get("difficulty"),
		SortBy:       q.Get("sort_by"),
		SortAsc:      q.Get("order") == "asc",
	}

	var err error
	if req.Page, err = shared.QueryInt(r, "page", 0); err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	if req.Size, err = shared.QueryInt(r, "size", 0); err != nil {
		shared.Error(w, h.Log, err)
		return
	}

	if req.Status != "" && req.Status != models.StatusApproved {
		if claims, ok := auth.CurrentUser(r); !ok || claims.Role != models.RoleAdmin {
			shared.JSON(w, http.StatusForbidden, map[string]string{"error": "non-approved listings require admin access"})
			return
		}
	}

	result, err := h.Search.Search(r.Context(), req)
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, result)
}

// Facets handles GET /search/facets.
func (h *Handler) Facets(w http.ResponseWriter, r *http.Request) {
	f, err := h.Search.Facets(r.Context())
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, f)
}

// Categories handles GET /search/categories: the category facet alone, for
// clients that populate a filter dropdown without the full facet payload.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	f, err := h.Search.Facets(r.Context())
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"categories": f.Categories})
}

// ResourceTypes handles GET /search/resource-types.
func (h *Handler) ResourceTypes(w http.ResponseWriter, r *http.Request) {
	f, err := h.Search.Facets(r.Context())
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"resource_types": f.ResourceTypes})
}

// Tags handles GET /search/tags.
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	f, err := h.Search.Facets(r.Context())
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"tags": f.Tags})
}

// Trending handles GET /search/trending.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	out, err := h.Search.Trending(r.Context())
	if err != nil {
		shared.Error(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"resources": out})
}

// splitTags accepts both repeated tags params and comma-separated values.
func splitTags(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}
