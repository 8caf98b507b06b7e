// internal/domain/models/ngo.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NGO approval lifecycle states. New registrations start as pending and move
// to approved or rejected by admin action.
const (
	NGOStatusPending  = "pending"
	NGOStatusApproved = "approved"
	NGOStatusRejected = "rejected"
)

// ValidNGOStatus reports whether s is a known NGO status.
func ValidNGOStatus(s string) bool {
	switch s {
	case NGOStatusPending, NGOStatusApproved, NGOStatusRejected:
		return true
	}
	return false
}

// NGO is an organization owned by exactly one user (the "ngo" role account
// that registered it). Email is unique via the uniq_ngos_email index.
type NGO struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Website     string             `bson:"website,omitempty" json:"website,omitempty"`
	Status      string             `bson:"status" json:"status"` // pending | approved | rejected
	UserID      primitive.ObjectID `bson:"user_id" json:"userId"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsApproved reports whether the NGO has passed admin review.
func (n *NGO) IsApproved() bool { return n.Status == NGOStatusApproved }
