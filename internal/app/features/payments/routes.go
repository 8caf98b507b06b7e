// internal/app/features/payments/routes.go
package payments

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the subrouter mounted at /api/payment.
//
// Every payment route is open so anonymous donations work end to end:
// the donor is attached at initiation when the router-level token
// middleware found a valid token, and an anonymous donor can still check
// the status of the donation they just made.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/initiate", h.HandleInitiate)
	r.Post("/verify", h.HandleVerify)
	r.Get("/{donationId}", h.ServeStatus)

	return r
}
