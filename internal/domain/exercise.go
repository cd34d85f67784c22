// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RepetitionMethod describes how an exercise is counted, e.g. {type: "seconds", number: 30}.
type RepetitionMethod struct {
	Type   string `bson:"type" json:"type"`
	Number int    `bson:"number" json:"number"`
}

// Exercise is a single exercise belonging to a program.
type Exercise struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID        primitive.ObjectID `bson:"programId" json:"programId"` // Parent program, lifecycle bound to it
	Title            string             `bson:"title" json:"title"`
	StartingPosition string             `bson:"startingPosition" json:"startingPosition"`
	Steps            []string           `bson:"steps" json:"steps"` // Ordered
	Repetitions      int                `bson:"repetitions" json:"repetitions"`
	RepetitionMethod RepetitionMethod   `bson:"repetitionMethod" json:"repetitionMethod"`
	// ImageKey is the object storage key of an optional illustration.
	ImageKey  string             `bson:"imageKey,omitempty" json:"imageKey,omitempty"`
	Creator   primitive.ObjectID `bson:"creator" json:"creator"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OwnerID returns the hex id of the account that created the exercise.
func (e *Exercise) OwnerID() string {
	return e.Creator.Hex()
}
