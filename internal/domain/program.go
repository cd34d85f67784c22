package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program is a named collection of exercises owned by one account.
type Program struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Creator     primitive.ObjectID `bson:"creator" json:"creator"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OwnerID returns the hex id of the account that created the program.
func (p *Program) OwnerID() string {
	return p.Creator.Hex()
}
