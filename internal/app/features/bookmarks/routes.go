// internal/app/features/bookmarks/routes.go
package bookmarks

import (
	"github.com/go-chi/chi/v5"
	"github.com/opencurio/resourcehub/internal/app/system/auth"
)

// Routes returns the bookmark subrouter, mounted under /bookmarks.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireUser)

	r.Get("/", h.List)
	r.Put("/{id}", h.Add)
	r.Delete("/{id}", h.Remove)

	return r
}
