// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/sevahub/sevahub/internal/app/system/normalize"
	"github.com/sevahub/sevahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	// ErrEventFull is returned when a join would exceed the volunteer cap.
	ErrEventFull = errors.New("event is full")
	// ErrAlreadyJoined is returned when the volunteer is already on the roster.
	ErrAlreadyJoined = errors.New("already registered for this event")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// Create inserts a new event. MaxVolunteers defaults when unset.
func (s *Store) Create(ctx context.Context, ev models.Event) (models.Event, error) {
	now := time.Now().UTC()
	ev.ID = primitive.NewObjectID()
	ev.Title = normalize.Name(ev.Title)
	ev.Location = normalize.Name(ev.Location)
	if ev.MaxVolunteers <= 0 {
		ev.MaxVolunteers = models.DefaultMaxVolunteers
	}
	if ev.VolunteerIDs == nil {
		ev.VolunteerIDs = []primitive.ObjectID{}
	}
	ev.CreatedAt = now
	ev.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var ev models.Event
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ev)
	if err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// List returns all events sorted by date ascending (soonest first).
func (s *Store) List(ctx context.Context) ([]models.Event, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

// ListByNGO returns an NGO's events, latest-first.
func (s *Store) ListByNGO(ctx context.Context, ngoID primitive.ObjectID) ([]models.Event, error) {
	return s.find(ctx, bson.M{"ngo_id": ngoID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
}

// ListByVolunteer returns events a volunteer has joined, soonest first.
func (s *Store) ListByVolunteer(ctx context.Context, userID primitive.ObjectID) ([]models.Event, error) {
	return s.find(ctx, bson.M{"volunteers": userID},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// EventUpdate holds the fields an owner may change on an event.
// Nil fields are left untouched.
type EventUpdate struct {
	Title         *string
	Description   *string
	Date          *time.Time
	Location      *string
	MaxVolunteers *int
}

// Update modifies an event's mutable fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd EventUpdate) (models.Event, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = normalize.Name(*upd.Title)
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Date != nil {
		set["date"] = *upd.Date
	}
	if upd.Location != nil {
		set["location"] = normalize.Name(*upd.Location)
	}
	if upd.MaxVolunteers != nil {
		set["max_volunteers"] = *upd.MaxVolunteers
	}

	var ev models.Event
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ev)
	if err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// Delete removes an event by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Join adds a volunteer to the roster as a single conditional update, so two
// concurrent joins for the last slot cannot both succeed. The filter only
// matches when the volunteer is absent and the roster is below capacity;
// $addToSet then appends exactly once.
//
// When the update matches nothing, a follow-up read distinguishes not-found,
// already-joined, and full.
func (s *Store) Join(ctx context.Context, eventID, userID primitive.ObjectID) (models.Event, error) {
	filter := bson.M{
		"_id":        eventID,
		"volunteers": bson.M{"$ne": userID},
		"$expr": bson.M{
			"$lt": bson.A{
				bson.M{"$size": bson.M{"$ifNull": bson.A{"$volunteers", bson.A{}}}},
				"$max_volunteers",
			},
		},
	}
	update := bson.M{
		"$addToSet": bson.M{"volunteers": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}

	var ev models.Event
	err := s.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ev)
	if err == nil {
		return ev, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Event{}, err
	}

	// The conditional update matched nothing. Work out why.
	cur, err := s.GetByID(ctx, eventID)
	if err != nil {
		return models.Event{}, err // mongo.ErrNoDocuments: event gone
	}
	if cur.HasVolunteer(userID) {
		return models.Event{}, ErrAlreadyJoined
	}
	return models.Event{}, ErrEventFull
}

// Leave removes a volunteer from the roster. Removing a volunteer who is not
// on the roster is a no-op; the bool reports whether anything changed.
func (s *Store) Leave(ctx context.Context, eventID, userID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": eventID, "volunteers": userID},
		bson.M{
			"$pull": bson.M{"volunteers": userID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	// Nothing matched: the volunteer was not on the roster, or the event is gone.
	if err := s.c.FindOne(ctx, bson.M{"_id": eventID}).Err(); err != nil {
		return false, err
	}
	return false, nil
}

// Count returns the number of events matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
