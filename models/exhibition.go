package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exhibition is a curated gallery entry maintained by admins. Date and time
// are free-form display strings, not instants; exhibitions never drive the
// upcoming/past window queries.
type Exhibition struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Date        string             `bson:"date" json:"date"`
	Time        string             `bson:"time" json:"time"`
	Venue       string             `bson:"venue" json:"venue"`
	Credits     string             `bson:"credits" json:"credits"`
	ImageURL    string             `bson:"image_url" json:"image_url"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
