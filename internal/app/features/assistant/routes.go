// internal/app/features/assistant/routes.go
package assistant

import (
	"github.com/go-chi/chi/v5"
	"github.com/opencurio/resourcehub/internal/app/system/auth"
)

// Routes returns the assistant subrouter, mounted under /suggest.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireUser)
	r.Post("/", h.Ask)
	return r
}
