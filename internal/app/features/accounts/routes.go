// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/go-chi/chi/v5"
	"github.com/opencurio/resourcehub/internal/app/system/auth"
)

// Routes returns the account subrouter, mounted under /auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Get("/me", h.Me)
		r.Put("/me", h.UpdateMe)
	})

	return r
}
