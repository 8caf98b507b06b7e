package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sevahub/sevahub/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Token manager                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

var (
	ErrNoToken      = errors.New("no bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the JWT payload. The id/role field names are part of the API
// contract with existing clients, so they stay as-is.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies the bearer tokens issued at login.
// Tokens are HMAC-SHA256 signed and carry the user's ID and role.
type TokenManager struct {
	secret []byte
	expiry time.Duration
}

// NewTokenManager builds a TokenManager. The secret must be non-empty;
// 32+ random bytes are recommended.
func NewTokenManager(secret string, expiry time.Duration, logger *zap.Logger) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide ≥32 random chars")
	}
	if len(secret) < 32 {
		logger.Warn("jwt secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	return &TokenManager{secret: []byte(secret), expiry: expiry}, nil
}

// Issue creates a signed token for the user.
func (tm *TokenManager) Issue(userID primitive.ObjectID, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID.Hex(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// Verify parses and validates a token string, distinguishing expiry from
// other failures so the middleware can report them differently.
func (tm *TokenManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is what we decode from the bearer token & inject into r.Context().
type SessionUser struct {
	ID   string
	Role string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithUser returns a copy of r carrying u in its context. Exposed for tests
// that exercise handlers behind the auth middleware.
func WithUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// bearerToken extracts the token from the Authorization header. A header
// without the "Bearer " prefix is treated as a bare token, matching what
// existing clients send.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}

// LoadUser verifies the bearer token, if present, and injects the user into
// context. Requests without a token pass through anonymously; gating is left
// to RequireSignedIn / RequireRole so public routes can share the chain.
func (tm *TokenManager) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := tm.Verify(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		r = WithUser(r, &SessionUser{ID: claims.UserID, Role: claims.Role})
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures the request carries a valid bearer token and
// injects the user into context. Unlike LoadUser it rejects the request,
// with a message naming what was wrong (missing vs malformed vs expired).
func (tm *TokenManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		token, err := bearerToken(r)
		if err != nil {
			if errors.Is(err, ErrNoToken) {
				httpjson.Fail(w, http.StatusUnauthorized,
					"No token provided. Use Authorization: Bearer <token>")
				return
			}
			httpjson.Fail(w, http.StatusUnauthorized,
				"Invalid token format. Use Authorization: Bearer <token>")
			return
		}

		claims, err := tm.Verify(token)
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				httpjson.Fail(w, http.StatusUnauthorized, "Token has expired")
				return
			}
			httpjson.Fail(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		r = WithUser(r, &SessionUser{ID: claims.UserID, Role: claims.Role})
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures there is a signed-in user whose role is in the allowed
// set. Mount after RequireSignedIn.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				httpjson.Fail(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				httpjson.Fail(w, http.StatusForbidden,
					"Access denied. Required roles: "+strings.Join(allowed, ", "))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
