package repository

import (
	"alcyxob/training-app/internal/domain" // Import our defined domain models
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

//go:generate mockgen -destination=../service/repository_mocks_test.go -package=service_test alcyxob/training-app/internal/repository ProgramRepository,ExerciseRepository

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// AccountRepository defines the interface for interacting with account data.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (primitive.ObjectID, error) // ErrDuplicateKey on taken username
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProgramRepository defines the interface for interacting with program data.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	GetByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]domain.Program, error)
	Update(ctx context.Context, program *domain.Program) error
	Delete(ctx context.Context, id primitive.ObjectID, creatorID primitive.ObjectID) error // Ensure creator owns the program
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByProgramAndCreator(ctx context.Context, programID, creatorID primitive.ObjectID) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID, creatorID primitive.ObjectID) error // Ensure creator owns the exercise
}

// ReportRepository defines the interface for interacting with report data.
// Reports are listed oldest first so that aggregation sees them in creation order.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Report, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Report, error)
	Update(ctx context.Context, report *domain.Report) error
	Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error
}

// Transactor runs fn so that every repository call made with the context it receives
// commits or rolls back together.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoTransaction is a Transactor for stores without multi-document transactions.
// fn runs directly and its writes are not rolled back on error.
type NoTransaction struct{}

func (NoTransaction) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
