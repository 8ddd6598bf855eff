// internal/app/features/searchapi/routes.go
package searchapi

import "github.com/go-chi/chi/v5"

// Routes returns the query subrouter, mounted under /search.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	r.Get("/facets", h.Facets)
	r.Get("/categories", h.Categories)
	r.Get("/resource-types", h.ResourceTypes)
	r.Get("/tags", h.Tags)
	r.Get("/trending", h.Trending)
	return r
}
