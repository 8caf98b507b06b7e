// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultMaxVolunteers applies when an event is created without an explicit
// capacity.
const DefaultMaxVolunteers = 50

// Event is a volunteer event owned by one NGO. VolunteerIDs is a set: the
// join operation enforces no-duplicates and the capacity bound atomically at
// the storage layer.
type Event struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title        string               `bson:"title" json:"title"`
	Description  string               `bson:"description,omitempty" json:"description,omitempty"`
	Date         time.Time            `bson:"date" json:"date"`
	Location     string               `bson:"location" json:"location"`
	NGOID        primitive.ObjectID   `bson:"ngo_id" json:"ngoId"`
	VolunteerIDs []primitive.ObjectID `bson:"volunteers" json:"volunteerIds"`
	MaxVolunteers int                 `bson:"max_volunteers" json:"maxVolunteers"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// VolunteerCount returns the current roster size.
func (e *Event) VolunteerCount() int { return len(e.VolunteerIDs) }

// IsFull reports whether the roster has reached capacity.
func (e *Event) IsFull() bool { return len(e.VolunteerIDs) >= e.MaxVolunteers }

// HasVolunteer reports whether the given user is already on the roster.
func (e *Event) HasVolunteer(userID primitive.ObjectID) bool {
	for _, id := range e.VolunteerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
