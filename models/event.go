package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types.
const (
	EventTypeWorkshop    = "workshop"
	EventTypeCompetition = "competition"
	EventTypeGeneral     = "event"
)

// Event statuses. Informational only; upcoming/past listings are driven by
// dates, not by this field.
const (
	EventStatusUpcoming  = "upcoming"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Date        time.Time          `bson:"date" json:"date"`
	EndDate     *time.Time         `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Location    string             `bson:"location" json:"location"`
	Type        string             `bson:"type" json:"type"`
	ImageURL    string             `bson:"image_url" json:"image_url"`
	// MaxParticipants == 0 means unlimited.
	MaxParticipants        int                  `bson:"max_participants,omitempty" json:"max_participants,omitempty"`
	RegisteredParticipants []primitive.ObjectID `bson:"registered_participants" json:"registered_participants"`
	Status                 string               `bson:"status" json:"status"`
	CreatedBy              primitive.ObjectID   `bson:"created_by" json:"created_by"`
	CreatedAt              time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt              time.Time            `bson:"updated_at" json:"updated_at"`
}

func ValidEventType(t string) bool {
	switch t {
	case EventTypeWorkshop, EventTypeCompetition, EventTypeGeneral:
		return true
	}
	return false
}

func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusUpcoming, EventStatusOngoing, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

// EffectiveEnd is the instant used for upcoming/past classification: the end
// date when present, otherwise the start date.
func (e *Event) EffectiveEnd() time.Time {
	if e.EndDate != nil {
		return *e.EndDate
	}
	return e.Date
}

// EndsBefore reports whether the event's effective end falls strictly before t.
// The Mongo window filters in the repository mirror this predicate.
func (e *Event) EndsBefore(t time.Time) bool {
	return e.EffectiveEnd().Before(t)
}

// IsRegistered checks participant membership by id value, not slice position.
func (e *Event) IsRegistered(userID primitive.ObjectID) bool {
	for _, p := range e.RegisteredParticipants {
		if p == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the participant list has reached capacity. Events
// without a cap are never full.
func (e *Event) IsFull() bool {
	return e.MaxParticipants > 0 && len(e.RegisteredParticipants) >= e.MaxParticipants
}
