// internal/app/features/resources/routes.go
package resources

import (
	"github.com/go-chi/chi/v5"
	"github.com/opencurio/resourcehub/internal/app/system/auth"
)

// Routes returns the catalog CRUD subrouter, mounted under /resources.
// Reads are public; submission needs a signed-in user; update, delete, and
// bulk ingestion are admin operations.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Post("/", h.Submit)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/bulk", h.Bulk)
	})

	return r
}
