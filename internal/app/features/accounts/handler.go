// internal/app/features/accounts/handler.go

// Package accounts implements registration and login. Both endpoints issue a
// signed bearer token so the client can authenticate follow-up requests.
package accounts

import (
	"context"
	"net/http"

	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"github.com/sevahub/sevahub/internal/app/system/apperr"
	"github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/sevahub/sevahub/internal/app/system/httpjson"
	"github.com/sevahub/sevahub/internal/app/system/inputval"
	"github.com/sevahub/sevahub/internal/app/system/normalize"
	"github.com/sevahub/sevahub/internal/app/system/ratelimit"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"github.com/sevahub/sevahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost matches the cost the existing user records were hashed with.
const BcryptCost = 10

type Handler struct {
	Users        *userstore.Store
	Tokens       *auth.TokenManager
	LoginLimiter *ratelimit.LoginLimiter
	Log          *zap.Logger
}

func NewHandler(users *userstore.Store, tokens *auth.TokenManager, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Tokens: tokens, LoginLimiter: limiter, Log: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type authResponse struct {
	Token string               `json:"token"`
	User  models.PublicProfile `json:"user"`
}

// HandleRegister creates a user account and signs them in.
//
// POST /api/auth/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	req.Name = normalize.Name(req.Name)
	req.Email = normalize.Email(req.Email)
	req.Phone = normalize.Phone(req.Phone)
	req.Role = normalize.Role(req.Role)

	if err := h.validateRegistration(req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), BcryptCost)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.Create(ctx, models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         req.Role,
	})
	if err != nil {
		if err == userstore.ErrDuplicateEmail {
			httpjson.Error(w, h.Log, apperr.Conflict("Email already registered"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	token, err := h.Tokens.Issue(user.ID, user.Role)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", user.Role))

	httpjson.Created(w, "User registered successfully", authResponse{
		Token: token,
		User:  user.Public(),
	})
}

func (h *Handler) validateRegistration(req registerRequest) error {
	if err := inputval.PersonName(req.Name); err != nil {
		return err
	}
	if err := inputval.Email(req.Email); err != nil {
		return err
	}
	if err := inputval.Password(req.Password); err != nil {
		return err
	}
	if err := inputval.Phone(req.Phone); err != nil {
		return err
	}
	switch req.Role {
	case "", "volunteer", "ngo":
		return nil
	case "admin":
		// Admin accounts are provisioned out of band, never self-registered.
		return apperr.Validation("Cannot self-register as admin")
	default:
		return apperr.Validation("Role must be volunteer or ngo")
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues a token. Lookup failures and
// password mismatches produce the same message so accounts cannot be probed.
//
// POST /api/auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	req.Email = normalize.Email(req.Email)

	if h.LoginLimiter != nil {
		if allowed, reason := h.LoginLimiter.Check(r, req.Email); !allowed {
			httpjson.Fail(w, http.StatusTooManyRequests, reason)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, h.Log, apperr.Auth("Invalid email or password"))
			return
		}
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		httpjson.Error(w, h.Log, apperr.Auth("Invalid email or password"))
		return
	}

	token, err := h.Tokens.Issue(user.ID, user.Role)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Internal(err))
		return
	}

	if h.LoginLimiter != nil {
		h.LoginLimiter.ResetEmail(req.Email)
	}

	h.Log.Info("user logged in", zap.String("user_id", user.ID.Hex()))

	httpjson.OKMessage(w, "Login successful", authResponse{
		Token: token,
		User:  user.Public(),
	})
}
