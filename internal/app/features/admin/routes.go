// internal/app/features/admin/routes.go
package admin

import (
	"github.com/go-chi/chi/v5"
	"github.com/opencurio/resourcehub/internal/app/system/auth"
)

// Routes returns the admin subrouter, mounted under /admin.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireAdmin)

	r.Get("/pending", h.Pending)
	r.Post("/resources/{id}/approve", h.Approve)
	r.Post("/resources/{id}/reject", h.Reject)
	r.Get("/stats", h.Stats)
	r.Get("/users", h.ListUsers)
	r.Put("/users/{id}/role", h.SetRole)

	return r
}
