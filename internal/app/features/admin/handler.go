// internal/app/features/admin/handler.go

// Package admin serves the moderation surface: the full NGO review queue,
// legacy approve aliases, and platform-wide statistics.
package admin

import (
	"context"
	"net/http"

	donationstore "github.com/sevahub/sevahub/internal/app/store/donations"
	eventstore "github.com/sevahub/sevahub/internal/app/store/events"
	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/apperr"
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
	Users     *userstore.Store
	NGOs      *ngostore.Store
	Events    *eventstore.Store
	Donations *donationstore.Store
	Log       *zap.Logger
}

func NewHandler(users *userstore.Store, ngos *ngostore.Store, events *eventstore.Store, donations *donationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, NGOs: ngos, Events: events, Donations: donations, Log: logger}
}

// ServeNGOs returns every NGO regardless of status, for the review queue.
// An optional ?status= query narrows the list.
//
// GET /api/admin/ngos
func (h *Handler) ServeNGOs(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidNGOStatus(status) {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid NGO status"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ngos, err := h.NGOs.List(ctx, status)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.OKList(w, len(ngos), ngos)
}

// HandleApprove is the legacy approval alias kept for older admin clients.
//
// PUT /api/admin/approve/{id}
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid NGO ID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ngo, err := h.NGOs.SetStatus(ctx, id, models.NGOStatusApproved)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.NotFound("NGO not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.Log.Info("ngo approved", zap.String("ngo_id", id.Hex()))
	httpjson.OKMessage(w, "NGO approved successfully", ngo)
}

type statsResponse struct {
	Users     userCounts                 `json:"users"`
	NGOs      ngoCounts                  `json:"ngos"`
	Events    int64                      `json:"events"`
	Donations []donationstore.StatusStat `json:"donations"`
}

type userCounts struct {
	Total      int64 `json:"total"`
	Volunteers int64 `json:"volunteers"`
	NGOs       int64 `json:"ngos"`
	Admins     int64 `json:"admins"`
}

type ngoCounts struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// ServeStats returns platform-wide counts and the donation ledger breakdown.
//
// GET /api/admin/stats
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var (
		out statsResponse
		err error
	)

	if out.Users.Total, err = h.Users.Count(ctx, bson.M{}); err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if out.Users.Volunteers, err = h.Users.Count(ctx, bson.M{"role": "volunteer"}); err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if out.Users.NGOs, err = h.Users.Count(ctx, bson.M{"role": "ngo"}); err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if out.Users.Admins, err = h.Users.Count(ctx, bson.M{"role": "admin"}); err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	if out.NGOs.Total, err = h.NGOs.Count(ctx, bson.M{}); err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if out.NGOs.Pending, err = h.NGOs.Count(ctx, bson.M{"status": models.NGOStatusPending}); err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if out.NGOs.Approved, err = h.NGOs.Count(ctx, bson.M{"status": models.NGOStatusApproved}); err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if out.NGOs.Rejected, err = h.NGOs.Count(ctx, bson.M{"status": models.NGOStatusRejected}); err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	if out.Events, err = h.Events.Count(ctx, bson.M{}); err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if out.Donations, err = h.Donations.Statistics(ctx); err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if out.Donations == nil {
		out.Donations = []donationstore.StatusStat{}
	}

	httpjson.OK(w, out)
}
