// internal/app/features/events/routes.go
package events

import (
	"github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted at /api/event.
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/ngo/{ngoId}", h.ServeByNGO)
	r.Get("/{id}", h.ServeDetail)

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSignedIn)
		pr.Use(auth.RequireRole("ngo"))
		pr.Post("/", h.HandleCreate)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSignedIn)
		pr.Get("/my", h.ServeMine)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
		pr.Post("/{id}/register", h.HandleRegister)
		pr.Delete("/{id}/register", h.HandleLeave)
		pr.Put("/join/{id}", h.HandleJoin)
		pr.Put("/leave/{id}", h.HandleLeave)
	})

	return r
}
