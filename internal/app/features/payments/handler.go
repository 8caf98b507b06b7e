// internal/app/features/payments/handler.go

// Package payments implements the two-phase simulated payment handshake.
// Initiate opens a pending ledger entry and hands the client mock gateway
// references; verify echoes the references back and settles the entry to
// completed or failed. Pending entries that are never verified are failed
// by the background sweep.
package payments

import (
	"context"
	"net/http"

	donationstore "github.com/sevahub/sevahub/internal/app/store/donations"
	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	"github.com/sevahub/sevahub/internal/app/system/apperr"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/httpjson"
	"github.com/sevahub/sevahub/internal/app/system/payid"
	"github.com/sevahub/sevahub/internal/app/system/paysim"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MockGatewayKey is the publishable key the client passes to the fake
// checkout widget. There is no real gateway behind it.
const MockGatewayKey = "MOCK_RAZORPAY_KEY"

type Handler struct {
	Donations *donationstore.Store
	NGOs      *ngostore.Store
	Decider   paysim.OutcomeDecider
	Log       *zap.Logger
}

func NewHandler(donations *donationstore.Store, ngos *ngostore.Store, decider paysim.OutcomeDecider, logger *zap.Logger) *Handler {
	return &Handler{Donations: donations, NGOs: ngos, Decider: decider, Log: logger}
}

type initiateRequest struct {
	Amount  int64  `json:"amount"`
	NGOID   string `json:"ngoId"`
	EventID string `json:"eventId"`
}

type initiateResponse struct {
	OrderID       string `json:"orderId"`
	PaymentID     string `json:"paymentId"`
	DonationID    string `json:"donationId"`
	NGOID         string `json:"ngoId"`
	Amount        int64  `json:"amount"`
	AmountInPaise int64  `json:"amount_in_paise"`
	Currency      string `json:"currency"`
	Key           string `json:"key"`
}

// HandleInitiate opens a pending donation and issues mock gateway references.
// Anonymous donations are allowed; the donor is attached only when the
// request carries a valid token.
//
// POST /api/payment/initiate
func (h *Handler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	var donorID *primitive.ObjectID
	if _, userID, ok := authz.UserCtx(r); ok {
		donorID = &userID
	}

	var req initiateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if !models.ValidDonationAmount(req.Amount) {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid donation amount"))
		return
	}
	ngoID, err := primitive.ObjectIDFromHex(req.NGOID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid NGO ID"))
		return
	}
	var eventID *primitive.ObjectID
	if req.EventID != "" {
		id, err := primitive.ObjectIDFromHex(req.EventID)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.Validation("Invalid event ID"))
			return
		}
		eventID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.NGOs.GetByID(ctx, ngoID); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.NotFound("NGO not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	entry, err := h.Donations.Create(ctx, models.Donation{
		DonorID:       donorID,
		Amount:        req.Amount,
		NGOID:         ngoID,
		EventID:       eventID,
		PaymentStatus: models.PaymentPending,
	})
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	donation, err := h.Donations.AttachPaymentRefs(ctx, entry.ID, payid.Payment(), payid.Order())
	if err != nil {
		if err == donationstore.ErrDuplicateRef {
			httpjson.Error(w, h.Log, apperr.Conflict("Payment reference collision, please retry"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.Log.Info("payment initiated",
		zap.String("donation_id", donation.ID.Hex()),
		zap.String("order_id", donation.OrderID),
		zap.Int64("amount", donation.Amount))

	httpjson.OKMessage(w, "Payment initiated", initiateResponse{
		OrderID:       donation.OrderID,
		PaymentID:     donation.PaymentID,
		DonationID:    donation.ID.Hex(),
		NGOID:         ngoID.Hex(),
		Amount:        donation.Amount,
		AmountInPaise: donation.Amount * 100,
		Currency:      models.DonationCurrency,
		Key:           MockGatewayKey,
	})
}

type verifyRequest struct {
	DonationID string `json:"donationId"`
	PaymentID  string `json:"paymentId"`
	OrderID    string `json:"orderId"`
}

// HandleVerify settles a pending donation. The client must echo back the
// exact references issued at initiation; the simulated gateway then approves
// or declines. Either way the entry leaves pending exactly once.
//
// POST /api/payment/verify
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if req.DonationID == "" || req.PaymentID == "" || req.OrderID == "" {
		httpjson.Error(w, h.Log, apperr.Validation("Missing payment verification details"))
		return
	}
	donationID, err := primitive.ObjectIDFromHex(req.DonationID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid donation ID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	donation, err := h.Donations.GetByID(ctx, donationID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.NotFound("Donation not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	if donation.PaymentID != req.PaymentID || donation.OrderID != req.OrderID {
		httpjson.Error(w, h.Log, apperr.Validation("Payment verification failed: IDs mismatch"))
		return
	}

	if !h.Decider.Approve() {
		failed, err := h.Donations.Transition(ctx, donationID, models.PaymentFailed)
		if err != nil {
			h.settlementError(w, err)
			return
		}
		h.Log.Info("payment declined",
			zap.String("donation_id", donationID.Hex()),
			zap.String("order_id", failed.OrderID))
		httpjson.Error(w, h.Log, apperr.PaymentRequired("Payment failed. Please try again."))
		return
	}

	completed, err := h.Donations.Transition(ctx, donationID, models.PaymentCompleted)
	if err != nil {
		h.settlementError(w, err)
		return
	}

	h.Log.Info("payment verified",
		zap.String("donation_id", donationID.Hex()),
		zap.String("order_id", completed.OrderID),
		zap.Int64("amount", completed.Amount))

	// Return the entry with donor/NGO/event references resolved.
	detail, err := h.Donations.GetDetailed(ctx, donationID)
	if err != nil {
		httpjson.OKMessage(w, "Payment verified successfully", completed)
		return
	}
	httpjson.OKMessage(w, "Payment verified successfully", detail)
}

func (h *Handler) settlementError(w http.ResponseWriter, err error) {
	switch err {
	case donationstore.ErrNotPending:
		httpjson.Error(w, h.Log, apperr.InvalidState("Donation has already been processed"))
	case mongo.ErrNoDocuments:
		httpjson.Error(w, h.Log, apperr.NotFound("Donation not found"))
	default:
		httpjson.Error(w, h.Log, apperr.Internal(err))
	}
}

// ServeStatus returns the current payment state of a donation.
//
// GET /api/payment/{donationId}
func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
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
	httpjson.OK(w, donation)
}
