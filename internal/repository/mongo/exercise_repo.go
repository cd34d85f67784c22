package mongo

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise into the database.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Title == "" || exercise.Creator == primitive.NilObjectID || exercise.ProgramID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("exercise title, program ID and creator are required")
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now
	if exercise.Steps == nil {
		exercise.Steps = []string{}
	}

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// GetByProgramAndCreator retrieves the exercises of one program that were created by creatorID.
func (r *mongoExerciseRepository) GetByProgramAndCreator(ctx context.Context, programID, creatorID primitive.ObjectID) ([]domain.Exercise, error) {
	exercises := []domain.Exercise{}
	filter := bson.M{"programId": programID, "creator": creatorID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}

	// Check for cursor errors after iteration
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}

// Update modifies an existing exercise.
// The parent program and creator are never changed here.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for update")
	}

	now := time.Now().UTC()
	set := bson.M{
		"title":            exercise.Title,
		"startingPosition": exercise.StartingPosition,
		"steps":            exercise.Steps,
		"repetitions":      exercise.Repetitions,
		"repetitionMethod": exercise.RepetitionMethod,
		"updatedAt":        now,
	}
	update := bson.M{"$set": set}
	if exercise.ImageKey != "" {
		set["imageKey"] = exercise.ImageKey
	} else {
		update["$unset"] = bson.M{"imageKey": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": exercise.ID}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return repository.ErrNotFound // Exercise with that ID didn't exist
	}
	exercise.UpdatedAt = now
	return nil
}

// Delete removes an exercise, ensuring it belongs to the specified creator.
func (r *mongoExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID, creatorID primitive.ObjectID) error {
	filter := bson.M{
		"_id":     id,
		"creator": creatorID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		// Missing or owned by someone else; the service layer checks ownership first.
		return repository.ErrNotFound
	}

	return nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Cascade deletion and listing look exercises up by program and creator
			Keys:    bson.D{{Key: "programId", Value: 1}, {Key: "creator", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
