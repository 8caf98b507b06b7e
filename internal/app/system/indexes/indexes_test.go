package indexes_test

import (
	"context"
	"testing"
	"time"

	"github.com/sevahub/sevahub/internal/app/system/indexes"
	"github.com/sevahub/sevahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func indexNames(t *testing.T, ctx context.Context, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("listing %s indexes: %v", coll, err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesUserIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, ctx, db, "users")
	for _, name := range []string{
		"uniq_users_email",
		"idx_users_role_id",
	} {
		if !names[name] {
			t.Errorf("expected index %q to exist on users collection", name)
		}
	}
}

func TestEnsureAll_CreatesNGOIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, ctx, db, "ngos")
	for _, name := range []string{
		"uniq_ngos_email",
		"idx_ngos_status_created",
		"idx_ngos_user",
	} {
		if !names[name] {
			t.Errorf("expected index %q to exist on ngos collection", name)
		}
	}
}

func TestEnsureAll_CreatesEventIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, ctx, db, "events")
	for _, name := range []string{
		"idx_events_ngo_date",
		"idx_events_date",
		"idx_events_volunteers",
	} {
		if !names[name] {
			t.Errorf("expected index %q to exist on events collection", name)
		}
	}
}

func TestEnsureAll_CreatesDonationIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, ctx, db, "donations")
	for _, name := range []string{
		"uniq_donations_payment",
		"uniq_donations_order",
		"idx_donations_ngo_status_created",
		"idx_donations_event_created",
		"idx_donations_donor_created",
		"idx_donations_status_created",
	} {
		if !names[name] {
			t.Errorf("expected index %q to exist on donations collection", name)
		}
	}
}

func TestEnsureAll_UniqueEmailEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := db.Collection("users").InsertOne(ctx, bson.M{"email": "asha@example.com", "name": "Asha"}); err != nil {
		t.Fatalf("inserting first user: %v", err)
	}
	if _, err := db.Collection("users").InsertOne(ctx, bson.M{"email": "asha@example.com", "name": "Other"}); err == nil {
		t.Error("expected duplicate key error for unique index on users.email")
	}
}

func TestEnsureAll_SparseUniquePaymentIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testContext(t)

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Documents without a payment_id do not collide under the sparse index.
	coll := db.Collection("donations")
	if _, err := coll.InsertOne(ctx, bson.M{"amount": 100}); err != nil {
		t.Fatalf("inserting first donation: %v", err)
	}
	if _, err := coll.InsertOne(ctx, bson.M{"amount": 200}); err != nil {
		t.Fatalf("inserting second donation without payment_id: %v", err)
	}

	if _, err := coll.InsertOne(ctx, bson.M{"amount": 300, "payment_id": "pay_x"}); err != nil {
		t.Fatalf("inserting donation with payment_id: %v", err)
	}
	if _, err := coll.InsertOne(ctx, bson.M{"amount": 400, "payment_id": "pay_x"}); err == nil {
		t.Error("expected duplicate key error for unique index on donations.payment_id")
	}
}
