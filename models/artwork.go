package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Artwork review statuses. Any status may transition to any other; admins can
// reverse a decision at any point.
const (
	ArtworkStatusPending  = "pending"
	ArtworkStatusApproved = "approved"
	ArtworkStatusRejected = "rejected"
)

type Artwork struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Credits     string             `bson:"credits" json:"credits"`
	ImageURL    string             `bson:"image_url" json:"image_url"`
	Artist      primitive.ObjectID `bson:"artist" json:"artist"`
	Status      string             `bson:"status" json:"status"`
	// Score is nil until an admin sets it; range 0-100 inclusive.
	Score     *float64  `bson:"score,omitempty" json:"score,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func ValidArtworkStatus(s string) bool {
	switch s {
	case ArtworkStatusPending, ArtworkStatusApproved, ArtworkStatusRejected:
		return true
	}
	return false
}
