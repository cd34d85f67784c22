package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account represents a registered user of the training application.
type Account struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"` // Unique
	PasswordHash string             `bson:"password" json:"-"`        // Never expose this via JSON
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	Email        string             `bson:"email" json:"email"`
	// IsAdmin is set only when the account is created and never changes afterwards.
	IsAdmin   bool      `bson:"isAdmin" json:"isAdmin"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
