package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sevahub/sevahub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID   string
	Role string
}

// AdminUser returns a TestUser with admin role.
func AdminUser() TestUser {
	return TestUser{ID: primitive.NewObjectID().Hex(), Role: "admin"}
}

// VolunteerUser returns a TestUser with volunteer role.
func VolunteerUser() TestUser {
	return TestUser{ID: primitive.NewObjectID().Hex(), Role: "volunteer"}
}

// NGOUser returns a TestUser with ngo role.
func NGOUser() TestUser {
	return TestUser{ID: primitive.NewObjectID().Hex(), Role: "ngo"}
}

// AsUser converts an existing user ID into a TestUser with the given role.
func AsUser(id primitive.ObjectID, role string) TestUser {
	return TestUser{ID: id.Hex(), Role: role}
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses the token middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithUser(r, &auth.SessionUser{ID: user.ID, Role: user.Role})
}

// NewJSONRequest creates an HTTP request carrying a JSON body.
func NewJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// Envelope mirrors the API response body for decoding in tests.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
}

// DecodeEnvelope parses a recorded response body into an Envelope.
func DecodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response envelope: %v (body: %s)", err, rec.Body.String())
	}
	return env
}
