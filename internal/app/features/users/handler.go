// internal/app/features/users/handler.go

// Package users serves account lookups: the signed-in profile, the admin
// user directory, and account deletion.
package users

import (
	"context"
	"net/http"

	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/apperr"
	"github.com/sevahub/sevahub/internal/app/system/authz"
	"github.com/sevahub/sevahub/internal/app/system/httpjson"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// ServeList returns all user accounts.
//
// GET /api/user (admin)
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx, "")
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	profiles := make([]models.PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Public())
	}
	httpjson.OKList(w, len(profiles), profiles)
}

// ServeMe returns the signed-in user's profile.
//
// GET /api/user/me
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.Auth("Authentication required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.NotFound("User not found"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	httpjson.OK(w, user.Public())
}

// HandleDelete removes a user account. Admins may delete anyone; everyone
// else may delete only themselves.
//
// DELETE /api/user/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("Invalid user ID"))
		return
	}

	if !authz.IsSelfOrAdmin(r, id) {
		httpjson.Error(w, h.Log, apperr.Forbidden("Access denied"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	deleted, err := h.Users.Delete(ctx, id)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}
	if deleted == 0 {
		httpjson.Error(w, h.Log, apperr.NotFound("User not found"))
		return
	}

	h.Log.Info("user deleted", zap.String("user_id", id.Hex()))
	httpjson.OKMessage(w, "User deleted successfully", nil)
}
