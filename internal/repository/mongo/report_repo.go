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

const reportCollectionName = "reports"

type mongoReportRepository struct {
	collection *mongo.Collection
}

// NewMongoReportRepository creates a new Report repository backed by MongoDB.
func NewMongoReportRepository(db *mongo.Database) repository.ReportRepository {
	return &mongoReportRepository{
		collection: db.Collection(reportCollectionName),
	}
}

func (r *mongoReportRepository) Create(ctx context.Context, report *domain.Report) (primitive.ObjectID, error) {
	if report.User == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("report user is required")
	}

	report.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted report ID")
	}
	return insertedID, nil
}

func (r *mongoReportRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Report, error) {
	var report domain.Report
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// GetByUser lists a user's reports ordered by creation time, ties broken by id.
func (r *mongoReportRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Report, error) {
	reports := []domain.Report{}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Update writes the correctable fields of a report. Titles and ids are snapshots and stay as recorded.
func (r *mongoReportRepository) Update(ctx context.Context, report *domain.Report) error {
	if report.ID == primitive.NilObjectID {
		return errors.New("report ID is required for update")
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"executedRepetitions": report.ExecutedRepetitions,
			"repetitionMethod":    report.RepetitionMethod,
			"updatedAt":           now,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": report.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	report.UpdatedAt = now
	return nil
}

func (r *mongoReportRepository) Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureReportIndexes creates necessary indexes for the reports collection.
func EnsureReportIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
