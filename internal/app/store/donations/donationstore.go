// internal/app/store/donations/donationstore.go
package donationstore

import (
	"context"
	"errors"
	"time"

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
	// ErrNotPending is returned when a status transition targets a donation
	// that is no longer pending. Completed and failed are terminal.
	ErrNotPending = errors.New("donation is not pending")
	// ErrDuplicateRef is returned when a payment or order reference collides
	// with one already in the ledger.
	ErrDuplicateRef = errors.New("payment reference already exists")
	errBadAmount    = errors.New("donation amount out of range")
	errBadStatus    = errors.New(`payment status must be "pending"|"completed"|"failed"`)
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("donations")}
}

// Create inserts a new ledger entry. Status defaults to pending when unset;
// direct donations (recorded without the payment handshake) pass completed.
func (s *Store) Create(ctx context.Context, d models.Donation) (models.Donation, error) {
	if !models.ValidDonationAmount(d.Amount) {
		return models.Donation{}, errBadAmount
	}
	if d.PaymentStatus == "" {
		d.PaymentStatus = models.PaymentPending
	}
	switch d.PaymentStatus {
	case models.PaymentPending, models.PaymentCompleted, models.PaymentFailed:
		// ok
	default:
		return models.Donation{}, errBadStatus
	}

	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.CreatedAt = now
	d.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, d); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Donation{}, ErrDuplicateRef
		}
		return models.Donation{}, err
	}
	return d, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Donation, error) {
	var d models.Donation
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		return models.Donation{}, err
	}
	return d, nil
}

// AttachPaymentRefs assigns the gateway references to a pending entry.
// The sparse unique indexes on payment_id and order_id reject collisions,
// so uniqueness is enforced by the storage layer, not check-then-act.
func (s *Store) AttachPaymentRefs(ctx context.Context, id primitive.ObjectID, paymentID, orderID string) (models.Donation, error) {
	if paymentID == "" || orderID == "" {
		return models.Donation{}, errors.New("payment references must not be empty")
	}

	var d models.Donation
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "payment_status": models.PaymentPending},
		bson.M{"$set": bson.M{
			"payment_id": paymentID,
			"order_id":   orderID,
			"updated_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err == nil {
		return d, nil
	}
	if wafflemongo.IsDup(err) {
		return models.Donation{}, ErrDuplicateRef
	}
	if err != mongo.ErrNoDocuments {
		return models.Donation{}, err
	}

	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
		return models.Donation{}, err
	}
	return models.Donation{}, ErrNotPending
}

// Transition moves a pending donation to a terminal status. The filter
// requires payment_status=pending, so a donation that has already been
// completed or failed (by a concurrent verify or the sweeper) is left
// untouched and ErrNotPending is reported.
func (s *Store) Transition(ctx context.Context, id primitive.ObjectID, to string) (models.Donation, error) {
	if to != models.PaymentCompleted && to != models.PaymentFailed {
		return models.Donation{}, errBadStatus
	}

	var d models.Donation
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "payment_status": models.PaymentPending},
		bson.M{"$set": bson.M{"payment_status": to, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err == nil {
		return d, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Donation{}, err
	}

	// Nothing matched: the donation is missing or already terminal.
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
		return models.Donation{}, err
	}
	return models.Donation{}, ErrNotPending
}

// List returns ledger entries matching the filter, newest-first.
func (s *Store) List(ctx context.Context, filter bson.M) ([]models.Donation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ds []models.Donation
	if err := cur.All(ctx, &ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// ListByNGO returns an NGO's received donations, newest-first.
func (s *Store) ListByNGO(ctx context.Context, ngoID primitive.ObjectID) ([]models.Donation, error) {
	return s.List(ctx, bson.M{"ngo_id": ngoID})
}

// ListByDonor returns a donor's giving history, newest-first.
func (s *Store) ListByDonor(ctx context.Context, donorID primitive.ObjectID) ([]models.Donation, error) {
	return s.List(ctx, bson.M{"donor_id": donorID})
}

// TotalForNGO sums completed donation amounts for an NGO.
func (s *Store) TotalForNGO(ctx context.Context, ngoID primitive.ObjectID) (int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"ngo_id":         ngoID,
			"payment_status": models.PaymentCompleted,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
		}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var out []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

// DonorSummary is the donor slice of a joined ledger entry.
type DonorSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

// NGOSummary is the recipient slice of a joined ledger entry.
type NGOSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

// EventSummary is the event slice of a joined ledger entry.
type EventSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Title string             `bson:"title" json:"title"`
	Date  time.Time          `bson:"date" json:"date"`
}

// Detail is a ledger entry with its donor, NGO, and event references
// resolved. Absent references (anonymous donor, no event) stay nil.
type Detail struct {
	models.Donation `bson:",inline"`

	Donor *DonorSummary `bson:"donor,omitempty" json:"donor,omitempty"`
	NGO   *NGOSummary   `bson:"ngo,omitempty" json:"ngo,omitempty"`
	Event *EventSummary `bson:"event,omitempty" json:"event,omitempty"`
}

func detailPipeline(match bson.M) mongo.Pipeline {
	lookup := func(from, local, as string) bson.D {
		return bson.D{{Key: "$lookup", Value: bson.M{
			"from":         from,
			"localField":   local,
			"foreignField": "_id",
			"as":           as,
		}}}
	}
	unwind := func(path string) bson.D {
		return bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       path,
			"preserveNullAndEmptyArrays": true,
		}}}
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		lookup("users", "donor_id", "donor"),
		unwind("$donor"),
		lookup("ngos", "ngo_id", "ngo"),
		unwind("$ngo"),
		lookup("events", "event_id", "event"),
		unwind("$event"),
	}
}

// ListDetailed returns joined ledger entries matching the filter,
// newest-first.
func (s *Store) ListDetailed(ctx context.Context, filter bson.M) ([]Detail, error) {
	cur, err := s.c.Aggregate(ctx, detailPipeline(filter))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ds []Detail
	if err := cur.All(ctx, &ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// GetDetailed returns one joined ledger entry.
func (s *Store) GetDetailed(ctx context.Context, id primitive.ObjectID) (Detail, error) {
	ds, err := s.ListDetailed(ctx, bson.M{"_id": id})
	if err != nil {
		return Detail{}, err
	}
	if len(ds) == 0 {
		return Detail{}, mongo.ErrNoDocuments
	}
	return ds[0], nil
}

// StatusStat is one per-status row of the ledger statistics.
type StatusStat struct {
	Status      string `bson:"_id" json:"status"`
	Count       int64  `bson:"count" json:"count"`
	TotalAmount int64  `bson:"total_amount" json:"totalAmount"`
}

// Statistics groups the ledger by payment status with counts and sums.
func (s *Store) Statistics(ctx context.Context) ([]StatusStat, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":          "$payment_status",
			"count":        bson.M{"$sum": 1},
			"total_amount": bson.M{"$sum": "$amount"},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var stats []StatusStat
	if err := cur.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// FailStalePending marks pending donations older than the TTL as failed.
// Called by the background sweep worker. Returns how many were failed.
func (s *Store) FailStalePending(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"payment_status": models.PaymentPending,
			"created_at":     bson.M{"$lt": cutoff},
		},
		bson.M{"$set": bson.M{
			"payment_status": models.PaymentFailed,
			"updated_at":     time.Now().UTC(),
		}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Count returns the number of donations matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
