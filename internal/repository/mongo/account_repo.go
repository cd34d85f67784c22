package mongo

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/repository" // Import the repository interfaces package
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const accountCollectionName = "accounts"

// mongoAccountRepository implements the repository.AccountRepository interface using MongoDB.
type mongoAccountRepository struct {
	collection *mongo.Collection
}

// NewMongoAccountRepository creates a new instance of mongoAccountRepository.
// It expects a connected *mongo.Database instance.
func NewMongoAccountRepository(db *mongo.Database) repository.AccountRepository {
	return &mongoAccountRepository{
		collection: db.Collection(accountCollectionName),
	}
}

// Create inserts a new account into the database.
func (r *mongoAccountRepository) Create(ctx context.Context, account *domain.Account) (primitive.ObjectID, error) {
	if account.Username == "" || account.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("account username and password hash are required")
	}

	account.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, account)
	if err != nil {
		// The unique index on username turns a race between two registrations into a duplicate key error
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves an account by its MongoDB ObjectID.
func (r *mongoAccountRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByUsername retrieves an account by exact username match.
func (r *mongoAccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var account domain.Account
	err := r.collection.FindOne(ctx, filter).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// List retrieves all accounts, oldest first.
func (r *mongoAccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	accounts := []domain.Account{}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Update writes the mutable profile fields of an account.
// isAdmin and createdAt are never part of the update document.
func (r *mongoAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if account.ID == primitive.NilObjectID {
		return errors.New("account ID is required for update")
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"username":  account.Username,
			"password":  account.PasswordHash,
			"firstName": account.FirstName,
			"lastName":  account.LastName,
			"email":     account.Email,
			"updatedAt": now,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": account.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	account.UpdatedAt = now
	return nil
}

// Delete removes an account.
func (r *mongoAccountRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAccountIndexes creates necessary indexes for the accounts collection.
// Call this once during application startup.
func EnsureAccountIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true), // Usernames are unique
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
