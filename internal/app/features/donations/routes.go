// internal/app/features/donations/routes.go
package donations

import (
	"github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted at /api/donate.
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Get("/{donationId}", h.ServeDetail)
		pr.Post("/event/{eventId}", h.HandleDonateToEvent)
	})

	return r
}
