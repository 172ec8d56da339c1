package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InstituteEmail string             `bson:"institute_email" json:"institute_email"`
	PersonalEmail  string             `bson:"personal_email" json:"personal_email"`
	Password       string             `bson:"password" json:"-"`
	Name           string             `bson:"name" json:"name"`
	RollNumber     string             `bson:"roll_number" json:"roll_number"`
	PhoneNumber    string             `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	IsAdmin        bool               `bson:"is_admin" json:"is_admin"`
	IsVerified     bool               `bson:"is_verified" json:"is_verified"`
	// One-shot numeric code emailed on registration; cleared once used.
	VerificationCode        string     `bson:"verification_code,omitempty" json:"-"`
	VerificationCodeExpires *time.Time `bson:"verification_code_expires,omitempty" json:"-"`
	CreatedAt               time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt               time.Time  `bson:"updated_at" json:"updated_at"`
}

// AuthUser is the authenticated principal carried through a request. It is
// built once by the auth middleware and passed to services as an explicit
// value; handlers never read raw identity fields off the request context.
type AuthUser struct {
	ID      primitive.ObjectID
	IsAdmin bool
}
