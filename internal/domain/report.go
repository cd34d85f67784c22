package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is the historical record of one completed exercise run.
// Program and exercise ids and titles are snapshots: they are plain strings with no
// reference enforcement and outlive the program/exercise they were taken from.
type Report struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID           string             `bson:"programId" json:"programId"`
	ProgramTitle        string             `bson:"programTitle" json:"programTitle"`
	ExerciseID          string             `bson:"exerciseId" json:"exerciseId"`
	ExerciseTitle       string             `bson:"exerciseTitle" json:"exerciseTitle"`
	ExecutedRepetitions int                `bson:"executedRepetitions" json:"executedRepetitions"`
	RepetitionMethod    RepetitionMethod   `bson:"repetitionMethod" json:"repetitionMethod"`
	User                primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OwnerID returns the hex id of the account the report belongs to.
func (r *Report) OwnerID() string {
	return r.User.Hex()
}
