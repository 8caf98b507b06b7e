package ngostore_test

import (
	"context"
	"testing"

	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	"github.com/sevahub/sevahub/internal/domain/models"
	"github.com/sevahub/sevahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestStore_Create_AlwaysPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ngostore.New(db)

	created, err := store.Create(context.Background(), models.NGO{
		Name:   "Green Earth",
		Email:  "contact@greenearth.org",
		Status: models.NGOStatusApproved, // callers cannot pre-approve
		UserID: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Status != models.NGOStatusPending {
		t.Errorf("expected pending, got %q", created.Status)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ngostore.New(db)
	ctx := context.Background()

	_, err := db.Collection("ngos").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		t.Fatalf("creating index: %v", err)
	}

	seed := models.NGO{Name: "Green Earth", Email: "contact@greenearth.org", UserID: primitive.NewObjectID()}
	if _, err := store.Create(ctx, seed); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	dup := models.NGO{Name: "Earth Again", Email: "Contact@GreenEarth.org", UserID: primitive.NewObjectID()}
	if _, err := store.Create(ctx, dup); err != ngostore.ErrDuplicateEmail {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_GetByUserID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ngostore.New(db)
	ctx := context.Background()
	owner := primitive.NewObjectID()

	if _, err := store.Create(ctx, models.NGO{Name: "Green Earth", Email: "contact@greenearth.org", UserID: owner}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByUserID(ctx, owner)
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if got.Name != "Green Earth" {
		t.Errorf("unexpected NGO %q", got.Name)
	}

	if _, err := store.GetByUserID(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_List_StatusFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ngostore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx := context.Background()
	owner := primitive.NewObjectID()

	fx.CreateNGO(ctx, "Pending Org", "p@example.org", models.NGOStatusPending, owner)
	fx.CreateNGO(ctx, "Approved Org", "a@example.org", models.NGOStatusApproved, owner)

	approved, err := store.List(ctx, models.NGOStatusApproved)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(approved) != 1 || approved[0].Name != "Approved Org" {
		t.Errorf("unexpected approved list: %+v", approved)
	}

	if _, err := store.List(ctx, "bogus"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestStore_SetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ngostore.New(db)
	ctx := context.Background()

	created, err := store.Create(ctx, models.NGO{Name: "Green Earth", Email: "contact@greenearth.org", UserID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	approved, err := store.SetStatus(ctx, created.ID, models.NGOStatusApproved)
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if approved.Status != models.NGOStatusApproved {
		t.Errorf("expected approved, got %q", approved.Status)
	}

	// Idempotent re-approval.
	again, err := store.SetStatus(ctx, created.ID, models.NGOStatusApproved)
	if err != nil {
		t.Fatalf("re-approval failed: %v", err)
	}
	if again.Status != models.NGOStatusApproved {
		t.Errorf("expected approved, got %q", again.Status)
	}

	if _, err := store.SetStatus(ctx, primitive.NewObjectID(), models.NGOStatusApproved); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_Update_PartialFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ngostore.New(db)
	ctx := context.Background()

	created, err := store.Create(ctx, models.NGO{
		Name:        "Green Earth",
		Email:       "contact@greenearth.org",
		Description: "Original",
		Phone:       "9876543210",
		UserID:      primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	desc := "Updated mission"
	updated, err := store.Update(ctx, created.ID, ngostore.NGOUpdate{Description: &desc})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Description != "Updated mission" {
		t.Errorf("expected updated description, got %q", updated.Description)
	}
	if updated.Phone != "9876543210" {
		t.Errorf("nil fields must be untouched, got phone %q", updated.Phone)
	}
	if updated.Status != models.NGOStatusPending {
		t.Errorf("Update must never change status, got %q", updated.Status)
	}
}
