// internal/app/features/users/routes.go
package users

import (
	"github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted at /api/user.
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSignedIn)
		pr.Use(auth.RequireRole("admin"))
		pr.Get("/", h.ServeList)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSignedIn)
		pr.Get("/me", h.ServeMe)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
