// internal/app/features/ngos/handler.go

// Package ngos implements the organization registry: registration, the
// public directory of approved NGOs, owner profile updates, and the admin
// review queue (approve/reject).
package ngos

import (
	"context"
	"net/http"

	donationstore "github.com/sevahub/sevahub/internal/app/store/donations"
	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	"github.com/sevahub/sevahub/internal/app/system/apperr"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/htmlsanitize"
	"github.com/sevahub/sevahub/internal/app/system/httpjson"
	"github.com/sevahub/sevahub/internal/app/system/inputval"
	"github.com/sevahub/sevahub/internal/app/system/normalize"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	NGOs      *ngostore.Store
	Donations *donationstore.Store
	Log       *zap.Logger
}

func NewHandler(ngos *ngostore.Store, donations *donationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{NGOs: ngos, Donations: donations, Log: logger}
}

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

// HandleRegister files an NGO registration. The profile starts pending and
// stays off the public directory until an admin approves it.
//
// POST /api/ngo/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.Auth("Authentication required"))
		return
	}

	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	req.Name = htmlsanitize.StripTags(normalize.Name(req.Name))
	req.Email = normalize.Email(req.Email)
	if err := inputval.PersonName(req.Name); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := inputval.Email(req.Email); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ngo, err := h.NGOs.Create(ctx, models.NGO{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     htmlsanitize.StripTags(req.Address),
		Description: htmlsanitize.Sanitize(req.Description),
		Website:     req.Website,
		UserID:      userID,
	})
	if err != nil {
		if err == ngostore.ErrDuplicateEmail {
			httpjson.Error(w, h.Log, apperr.Conflict("NGO already exists with this email"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.Log.Info("ngo registered",
		zap.String("ngo_id", ngo.ID.Hex()),
		zap.String("user_id", userID.Hex()))

	httpjson.Created(w, "NGO registered successfully", ngo)
}

// ServeList returns the public directory of approved NGOs.
//
// GET /api/ngo
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ngos, err := h.NGOs.List(ctx, models.NGOStatusApproved)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.OKList(w, len(ngos), ngos)
}

// ngoDetail decorates an NGO with its completed donation total.
type ngoDetail struct {
	models.NGO
	TotalDonations int64 `json:"totalDonations"`
}

// ServeDetail returns one NGO with its received donation total.
//
// GET /api/ngo/{id}
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid NGO ID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ngo, err := h.NGOs.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.NotFound("NGO not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	total, err := h.Donations.TotalForNGO(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	httpjson.OK(w, ngoDetail{NGO: ngo, TotalDonations: total})
}

type updateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	Website     *string `json:"website"`
}

// HandleUpdate lets the owning user edit their NGO profile.
//
// PUT /api/ngo/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid NGO ID"))
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ngo, err := h.ownedNGO(ctx, r, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	upd := ngostore.NGOUpdate{
		Phone:   req.Phone,
		Website: req.Website,
	}
	if req.Name != nil {
		name := htmlsanitize.StripTags(normalize.Name(*req.Name))
		if err := inputval.PersonName(name); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		upd.Name = &name
	}
	if req.Description != nil {
		desc := htmlsanitize.Sanitize(*req.Description)
		upd.Description = &desc
	}
	if req.Address != nil {
		addr := htmlsanitize.StripTags(*req.Address)
		upd.Address = &addr
	}

	updated, err := h.NGOs.Update(ctx, ngo.ID, upd)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.OKMessage(w, "NGO updated successfully", updated)
}

// HandleDelete removes an NGO profile. Owner or admin only.
//
// DELETE /api/ngo/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid NGO ID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !authz.IsAdmin(r) {
		if _, err := h.ownedNGO(ctx, r, id); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
	}

	deleted, err := h.NGOs.Delete(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if deleted == 0 {
		httpjson.Error(w, h.Log, apperr.NotFound("NGO not found"))
		return
	}

	h.Log.Info("ngo deleted", zap.String("ngo_id", id.Hex()))
	httpjson.OKMessage(w, "NGO deleted successfully", nil)
}

// HandleApprove moves an NGO to approved. Admin only.
//
// PUT /api/ngo/{id}/approve
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.NGOStatusApproved, "NGO approved successfully")
}

// HandleReject moves an NGO to rejected. Admin only.
//
// PUT /api/ngo/{id}/reject
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, models.NGOStatusRejected, "NGO rejected successfully")
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, status, message string) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid NGO ID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ngo, err := h.NGOs.SetStatus(ctx, id, status)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.NotFound("NGO not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.Log.Info("ngo reviewed",
		zap.String("ngo_id", id.Hex()),
		zap.String("status", status))

	httpjson.OKMessage(w, message, ngo)
}

// ownedNGO loads the NGO and verifies the signed-in user owns it.
func (h *Handler) ownedNGO(ctx context.Context, r *http.Request, id primitive.ObjectID) (models.NGO, error) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		return models.NGO{}, apperr.Auth("Authentication required")
	}

	ngo, err := h.NGOs.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.NGO{}, apperr.NotFound("NGO not found")
		}
		return models.NGO{}, apperr.Internal(err)
	}
	if ngo.UserID != userID {
		return models.NGO{}, apperr.Forbidden("Access denied")
	}
	return ngo, nil
}
