package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sevahub/sevahub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "test-jwt-secret-key-must-be-32-chars-long"

func newTestTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(testSecret, 24*time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	return tm
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	if _, err := auth.NewTokenManager("", time.Hour, zap.NewNop()); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	tm := newTestTokenManager(t)
	userID := primitive.NewObjectID()

	token, err := tm.Issue(userID, "volunteer")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != userID.Hex() {
		t.Errorf("expected user ID %q, got %q", userID.Hex(), claims.UserID)
	}
	if claims.Role != "volunteer" {
		t.Errorf("expected role 'volunteer', got %q", claims.Role)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	tm := newTestTokenManager(t)
	other, err := auth.NewTokenManager("another-secret-key-that-is-32-chars!", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}

	token, err := tm.Issue(primitive.NewObjectID(), "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Error("expected verification to fail with wrong secret")
	}
}

func TestVerify_Expired(t *testing.T) {
	tm, err := auth.NewTokenManager(testSecret, -time.Minute, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}

	token, err := tm.Issue(primitive.NewObjectID(), "volunteer")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := tm.Verify(token); err != auth.ErrExpiredToken {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	tm := newTestTokenManager(t)
	if _, err := tm.Verify("not.a.token"); err != auth.ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRequireSignedIn_NoToken_Returns401(t *testing.T) {
	tm := newTestTokenManager(t)

	handler := tm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/user/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No token provided") {
		t.Errorf("expected 'No token provided' message, got %q", rec.Body.String())
	}
}

func TestRequireSignedIn_ExpiredToken_Returns401(t *testing.T) {
	issuer, err := auth.NewTokenManager(testSecret, -time.Minute, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	token, err := issuer.Issue(primitive.NewObjectID(), "volunteer")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tm := newTestTokenManager(t)
	handler := tm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Token has expired") {
		t.Errorf("expected expiry message, got %q", rec.Body.String())
	}
}

func TestRequireSignedIn_ValidToken_InjectsUser(t *testing.T) {
	tm := newTestTokenManager(t)
	userID := primitive.NewObjectID()

	token, err := tm.Issue(userID, "ngo")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var got *auth.SessionUser
	handler := tm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got == nil {
		t.Fatal("expected user in context")
	}
	if got.ID != userID.Hex() || got.Role != "ngo" {
		t.Errorf("unexpected user in context: %+v", got)
	}
}

func TestRequireSignedIn_BareToken_Accepted(t *testing.T) {
	tm := newTestTokenManager(t)

	token, err := tm.Issue(primitive.NewObjectID(), "volunteer")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	handler := tm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Authorization header without the Bearer prefix
	req := httptest.NewRequest("GET", "/api/user/me", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireRole_NoUser_Returns401(t *testing.T) {
	handler := auth.RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/admin/ngos", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireRole_WrongRole_Returns403(t *testing.T) {
	handler := auth.RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/admin/ngos", nil)
	req = withTestUser(req, "volunteer")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestRequireRole_CorrectRole_Proceeds(t *testing.T) {
	called := false
	handler := auth.RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/admin/ngos", nil)
	req = withTestUser(req, "admin")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireRole_MultipleRoles(t *testing.T) {
	handler := auth.RequireRole("ngo", "admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		role     string
		expected int
	}{
		{"ngo", http.StatusOK},
		{"admin", http.StatusOK},
		{"volunteer", http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/event", nil)
			req = withTestUser(req, tc.role)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.expected {
				t.Errorf("role %q: expected status %d, got %d", tc.role, tc.expected, rec.Code)
			}
		})
	}
}

func TestRequireRole_CaseInsensitive(t *testing.T) {
	handler := auth.RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/admin/ngos", nil)
	req = withTestUser(req, "ADMIN")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d for uppercase role, got %d", http.StatusOK, rec.Code)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	user, ok := auth.CurrentUser(req)

	if ok {
		t.Error("expected ok to be false when no user in context")
	}
	if user != nil {
		t.Error("expected user to be nil when no user in context")
	}
}

// withTestUser injects a SessionUser into the request context, simulating
// what RequireSignedIn does after verifying a token.
func withTestUser(r *http.Request, role string) *http.Request {
	return auth.WithUser(r, &auth.SessionUser{
		ID:   "507f1f77bcf86cd799439011",
		Role: role,
	})
}
