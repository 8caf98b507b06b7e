// internal/app/features/ngos/routes.go
package ngos

import (
	"github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted at /api/ngo.
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeDetail)

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSignedIn)
		pr.Post("/register", h.HandleRegister)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSignedIn)
		pr.Use(auth.RequireRole("admin"))
		pr.Put("/{id}/approve", h.HandleApprove)
		pr.Put("/{id}/reject", h.HandleReject)
	})

	return r
}
