package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sevahub/sevahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role and a bcrypt-hashed
// password of "password123".
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateVolunteer creates a test volunteer user.
func (f *Fixtures) CreateVolunteer(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, "volunteer")
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, "admin")
}

// CreateNGO creates a test NGO with the given status, owned by userID.
func (f *Fixtures) CreateNGO(ctx context.Context, name, email, status string, userID primitive.ObjectID) models.NGO {
	f.t.Helper()

	now := time.Now().UTC()
	ngo := models.NGO{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Email:       email,
		Description: "Test NGO description",
		Status:      status,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("ngos").InsertOne(ctx, ngo); err != nil {
		f.t.Fatalf("failed to create test ngo: %v", err)
	}
	return ngo
}

// CreateApprovedNGO creates an approved test NGO owned by a fresh ngo-role user.
func (f *Fixtures) CreateApprovedNGO(ctx context.Context, name, email string) (models.NGO, models.User) {
	f.t.Helper()
	owner := f.CreateUser(ctx, name+" Owner", "owner+"+email, "ngo")
	ngo := f.CreateNGO(ctx, name, email, models.NGOStatusApproved, owner.ID)
	return ngo, owner
}

// CreateEvent creates a test event for the given NGO.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, ngoID primitive.ObjectID, maxVolunteers int) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	event := models.Event{
		ID:            primitive.NewObjectID(),
		Title:         title,
		Description:   "Test event description",
		Date:          now.Add(72 * time.Hour),
		Location:      "Test Location",
		NGOID:         ngoID,
		VolunteerIDs:  []primitive.ObjectID{},
		MaxVolunteers: maxVolunteers,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("events").InsertOne(ctx, event); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return event
}

// CreateDonation creates a test donation in the given payment status.
func (f *Fixtures) CreateDonation(ctx context.Context, donorID, ngoID primitive.ObjectID, amount int64, status string) models.Donation {
	f.t.Helper()

	now := time.Now().UTC()
	donation := models.Donation{
		ID:            primitive.NewObjectID(),
		DonorID:       &donorID,
		Amount:        amount,
		NGOID:         ngoID,
		PaymentStatus: status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("donations").InsertOne(ctx, donation); err != nil {
		f.t.Fatalf("failed to create test donation: %v", err)
	}
	return donation
}
