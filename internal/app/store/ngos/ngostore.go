// internal/app/store/ngos/ngostore.go
package ngostore

import (
	"context"
	"errors"
	"time"

	"github.com/sevahub/sevahub/internal/app/system/normalize"
	"github.com/sevahub/sevahub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateEmail = errors.New("an NGO with this email already exists")
	errBadStatus      = errors.New(`status must be "pending"|"approved"|"rejected"`)
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("ngos")}
}

// Create inserts a new NGO registration. New registrations always start
// pending; only an admin moves them to approved or rejected.
func (s *Store) Create(ctx context.Context, ngo models.NGO) (models.NGO, error) {
	now := time.Now().UTC()
	ngo.ID = primitive.NewObjectID()
	ngo.Name = normalize.Name(ngo.Name)
	ngo.Email = normalize.Email(ngo.Email)
	ngo.Status = models.NGOStatusPending
	ngo.CreatedAt = now
	ngo.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, ngo); err != nil {
		if wafflemongo.IsDup(err) {
			return models.NGO{}, ErrDuplicateEmail
		}
		return models.NGO{}, err
	}
	return ngo, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.NGO, error) {
	var ngo models.NGO
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ngo)
	if err != nil {
		return models.NGO{}, err
	}
	return ngo, nil
}

// GetByIDs loads the NGOs for the given ids, keyed by id. Missing ids are
// simply absent from the map.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.NGO, error) {
	out := make(map[primitive.ObjectID]models.NGO, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var ngo models.NGO
		if err := cur.Decode(&ngo); err != nil {
			return nil, err
		}
		out[ngo.ID] = ngo
	}
	return out, cur.Err()
}

// GetByUserID loads the NGO registered by the given user, if any.
func (s *Store) GetByUserID(ctx context.Context, userID primitive.ObjectID) (models.NGO, error) {
	var ngo models.NGO
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&ngo)
	if err != nil {
		return models.NGO{}, err
	}
	return ngo, nil
}

// List returns NGOs filtered by status (empty status means all), newest-first.
func (s *Store) List(ctx context.Context, status string) ([]models.NGO, error) {
	filter := bson.M{}
	if status != "" {
		if !models.ValidNGOStatus(status) {
			return nil, errBadStatus
		}
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ngos []models.NGO
	if err := cur.All(ctx, &ngos); err != nil {
		return nil, err
	}
	return ngos, nil
}

// SetStatus moves an NGO to the given review status. Setting a status the NGO
// already holds is a no-op, so approvals and rejections are idempotent.
// Returns mongo.ErrNoDocuments if the NGO does not exist.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (models.NGO, error) {
	if !models.ValidNGOStatus(status) {
		return models.NGO{}, errBadStatus
	}

	var ngo models.NGO
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ngo)
	if err != nil {
		return models.NGO{}, err
	}
	return ngo, nil
}

// NGOUpdate holds the fields an owner may change on an NGO profile.
// Nil fields are left untouched. Status is never updatable here; review
// transitions go through SetStatus.
type NGOUpdate struct {
	Name        *string
	Description *string
	Address     *string
	Phone       *string
	Website     *string
}

// Update modifies an NGO's mutable fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd NGOUpdate) (models.NGO, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = normalize.Name(*upd.Name)
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Website != nil {
		set["website"] = *upd.Website
	}

	var ngo models.NGO
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ngo)
	if err != nil {
		return models.NGO{}, err
	}
	return ngo, nil
}

// Delete removes an NGO by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the number of NGOs matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
