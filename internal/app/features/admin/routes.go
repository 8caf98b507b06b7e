// internal/app/features/admin/routes.go
package admin

import (
	"github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted at /api/admin. Every route requires
// the admin role.
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Use(tm.RequireSignedIn)
	r.Use(auth.RequireRole("admin"))

	r.Get("/ngos", h.ServeNGOs)
	r.Put("/approve/{id}", h.HandleApprove)
	r.Get("/stats", h.ServeStats)

	return r
}
