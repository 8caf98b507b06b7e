// internal/domain/models/donation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment lifecycle states for a donation ledger entry. Pending is the only
// non-terminal state; completed and failed are terminal.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Donation amount bounds, in whole rupees.
const (
	DonationMinAmount = 1
	DonationMaxAmount = 1_000_000
)

// DonationCurrency is the single fixed currency for all ledger entries.
const DonationCurrency = "INR"

// Donation is a ledger entry recording a monetary pledge to an NGO,
// optionally tied to an event and a donor (nil donor = anonymous).
//
// PaymentID and OrderID are assigned by the payment simulator at initiation
// and are globally unique when present (sparse unique indexes).
type Donation struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	DonorID       *primitive.ObjectID `bson:"donor_id,omitempty" json:"donorId,omitempty"`
	Amount        int64               `bson:"amount" json:"amount"`
	NGOID         primitive.ObjectID  `bson:"ngo_id" json:"ngoId"`
	EventID       *primitive.ObjectID `bson:"event_id,omitempty" json:"eventId,omitempty"`
	PaymentID     string              `bson:"payment_id,omitempty" json:"paymentId,omitempty"`
	OrderID       string              `bson:"order_id,omitempty" json:"orderId,omitempty"`
	PaymentStatus string              `bson:"payment_status" json:"paymentStatus"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsTerminal reports whether the entry has reached a final payment state.
func (d *Donation) IsTerminal() bool {
	return d.PaymentStatus == PaymentCompleted || d.PaymentStatus == PaymentFailed
}

// ValidDonationAmount reports whether amount is within the accepted range.
func ValidDonationAmount(amount int64) bool {
	return amount >= DonationMinAmount && amount <= DonationMaxAmount
}
