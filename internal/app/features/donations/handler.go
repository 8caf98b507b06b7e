// internal/app/features/donations/handler.go

// Package donations serves the donation ledger: direct event donations
// recorded as completed, plus donor and admin views of the ledger.
package donations

import (
	"context"
	"net/http"

	donationstore "github.com/sevahub/sevahub/internal/app/store/donations"
	eventstore "github.com/sevahub/sevahub/internal/app/store/events"
	"github.com/sevahub/sevahub/internal/app/system/apperr"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/httpjson"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Donations *donationstore.Store
	Events    *eventstore.Store
	Log       *zap.Logger
}

func NewHandler(donations *donationstore.Store, events *eventstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Donations: donations, Events: events, Log: logger}
}

type donateRequest struct {
	Amount int64 `json:"amount"`
}

// HandleDonateToEvent records a direct donation against an event's NGO.
// Direct donations skip the payment handshake and land completed.
//
// POST /api/donate/event/{eventId}
func (h *Handler) HandleDonateToEvent(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.Auth("Authentication required"))
		return
	}

	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventId"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid event ID"))
		return
	}

	var req donateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !models.ValidDonationAmount(req.Amount) {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid donation amount"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.NotFound("Event not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	donation, err := h.Donations.Create(ctx, models.Donation{
		DonorID:       &userID,
		Amount:        req.Amount,
		NGOID:         ev.NGOID,
		EventID:       &ev.ID,
		PaymentStatus: models.PaymentCompleted,
	})
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.Log.Info("direct donation recorded",
		zap.String("donation_id", donation.ID.Hex()),
		zap.String("event_id", ev.ID.Hex()),
		zap.Int64("amount", donation.Amount))

	httpjson.Created(w, "Donation successful", donation)
}

// ServeList returns the caller's giving history. Admins see the full ledger.
//
// GET /api/donate
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.Auth("Authentication required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	filter := bson.M{"donor_id": userID}
	if authz.IsAdmin(r) {
		filter = bson.M{}
	}
	ds, err := h.Donations.ListDetailed(ctx, filter)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.OKList(w, len(ds), ds)
}

// ServeDetail returns one ledger entry. The donor and admins may view it.
//
// GET /api/donate/{donationId}
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.Auth("Authentication required"))
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "donationId"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid donation ID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	donation, err := h.Donations.GetDetailed(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.NotFound("Donation not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	if !authz.IsAdmin(r) && (donation.DonorID == nil || *donation.DonorID != userID) {
		httpjson.Error(w, h.Log, apperr.Forbidden("Access denied"))
		return
	}

	httpjson.OK(w, donation)
}
