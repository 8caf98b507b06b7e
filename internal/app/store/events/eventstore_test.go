package eventstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	eventstore "github.com/sevahub/sevahub/internal/app/store/events"
	"github.com/sevahub/sevahub/internal/domain/models"
	"github.com/sevahub/sevahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func seedEvent(t *testing.T, store *eventstore.Store, max int) models.Event {
	t.Helper()
	ev, err := store.Create(context.Background(), models.Event{
		Title:         "Beach Cleanup",
		Date:          time.Now().UTC().Add(72 * time.Hour),
		Location:      "Juhu Beach",
		NGOID:         primitive.NewObjectID(),
		MaxVolunteers: max,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return ev
}

func TestStore_Create_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)

	ev, err := store.Create(context.Background(), models.Event{
		Title: "Beach Cleanup",
		Date:  time.Now().UTC().Add(72 * time.Hour),
		NGOID: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if ev.MaxVolunteers != models.DefaultMaxVolunteers {
		t.Errorf("expected default capacity %d, got %d", models.DefaultMaxVolunteers, ev.MaxVolunteers)
	}
	if ev.VolunteerIDs == nil {
		t.Error("expected empty roster, got nil")
	}
}

func TestStore_Join_AddsOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx := context.Background()
	ev := seedEvent(t, store, 10)
	vol := primitive.NewObjectID()

	joined, err := store.Join(ctx, ev.ID, vol)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if !joined.HasVolunteer(vol) {
		t.Error("expected volunteer on the roster")
	}

	if _, err := store.Join(ctx, ev.ID, vol); err != eventstore.ErrAlreadyJoined {
		t.Errorf("expected ErrAlreadyJoined, got %v", err)
	}

	cur, err := store.GetByID(ctx, ev.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if cur.VolunteerCount() != 1 {
		t.Errorf("expected roster size 1, got %d", cur.VolunteerCount())
	}
}

func TestStore_Join_Full(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx := context.Background()
	ev := seedEvent(t, store, 1)

	if _, err := store.Join(ctx, ev.ID, primitive.NewObjectID()); err != nil {
		t.Fatalf("first Join failed: %v", err)
	}
	if _, err := store.Join(ctx, ev.ID, primitive.NewObjectID()); err != eventstore.ErrEventFull {
		t.Errorf("expected ErrEventFull, got %v", err)
	}
}

func TestStore_Join_MissingEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)

	_, err := store.Join(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_Join_ConcurrentLastSlot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx := context.Background()
	ev := seedEvent(t, store, 3)

	const racers = 10
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Join(ctx, ev.ID, primitive.NewObjectID())
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		switch err {
		case nil:
			wins++
		case eventstore.ErrEventFull:
		default:
			t.Errorf("unexpected join error: %v", err)
		}
	}
	if wins != 3 {
		t.Errorf("expected exactly 3 winners, got %d", wins)
	}

	cur, err := store.GetByID(ctx, ev.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if cur.VolunteerCount() != 3 {
		t.Errorf("expected roster size 3, got %d", cur.VolunteerCount())
	}
}

func TestStore_Leave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx := context.Background()
	ev := seedEvent(t, store, 10)
	vol := primitive.NewObjectID()

	if _, err := store.Join(ctx, ev.ID, vol); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	removed, err := store.Leave(ctx, ev.ID, vol)
	if err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if !removed {
		t.Error("expected removal to report true")
	}

	removed, err = store.Leave(ctx, ev.ID, vol)
	if err != nil {
		t.Fatalf("second Leave failed: %v", err)
	}
	if removed {
		t.Error("expected no-op removal to report false")
	}

	if _, err := store.Leave(ctx, primitive.NewObjectID(), vol); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_ListByVolunteer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx := context.Background()
	joined := seedEvent(t, store, 10)
	seedEvent(t, store, 10)
	vol := primitive.NewObjectID()

	if _, err := store.Join(ctx, joined.ID, vol); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	events, err := store.ListByVolunteer(ctx, vol)
	if err != nil {
		t.Fatalf("ListByVolunteer failed: %v", err)
	}
	if len(events) != 1 || events[0].ID != joined.ID {
		t.Errorf("unexpected events: %+v", events)
	}
}

func TestStore_Update_PartialFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx := context.Background()
	ev := seedEvent(t, store, 10)

	loc := "Versova Beach"
	updated, err := store.Update(ctx, ev.ID, eventstore.EventUpdate{Location: &loc})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Location != "Versova Beach" {
		t.Errorf("expected updated location, got %q", updated.Location)
	}
	if updated.Title != ev.Title {
		t.Errorf("nil fields must be untouched, got title %q", updated.Title)
	}
}
