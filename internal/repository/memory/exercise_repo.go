package memory

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type exerciseRepository struct {
	t *table[domain.Exercise]
}

// NewExerciseRepository creates an empty in-memory repository.ExerciseRepository.
func NewExerciseRepository() repository.ExerciseRepository {
	return &exerciseRepository{t: newTable[domain.Exercise]()}
}

func (r *exerciseRepository) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = now()
	exercise.UpdatedAt = exercise.CreatedAt
	if exercise.Steps == nil {
		exercise.Steps = []string{}
	}
	r.t.insert(exercise.ID, cloneExercise(*exercise))
	return exercise.ID, nil
}

func (r *exerciseRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	exercise, ok := r.t.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	exercise = cloneExercise(exercise)
	return &exercise, nil
}

func (r *exerciseRepository) GetByProgramAndCreator(_ context.Context, programID, creatorID primitive.ObjectID) ([]domain.Exercise, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	exercises := r.t.filter(func(e domain.Exercise) bool {
		return e.ProgramID == programID && e.Creator == creatorID
	})
	for i := range exercises {
		exercises[i] = cloneExercise(exercises[i])
	}
	return exercises, nil
}

func (r *exerciseRepository) Update(_ context.Context, exercise *domain.Exercise) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	stored, ok := r.t.rows[exercise.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title = exercise.Title
	stored.StartingPosition = exercise.StartingPosition
	stored.Steps = append([]string(nil), exercise.Steps...)
	stored.Repetitions = exercise.Repetitions
	stored.RepetitionMethod = exercise.RepetitionMethod
	stored.ImageKey = exercise.ImageKey
	stored.UpdatedAt = now()
	r.t.rows[exercise.ID] = stored
	exercise.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *exerciseRepository) Delete(_ context.Context, id primitive.ObjectID, creatorID primitive.ObjectID) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	stored, ok := r.t.rows[id]
	if !ok || stored.Creator != creatorID {
		return repository.ErrNotFound
	}
	r.t.remove(id)
	return nil
}

// Steps is the only reference-typed field; callers must not share it with the store.
func cloneExercise(e domain.Exercise) domain.Exercise {
	e.Steps = append([]string{}, e.Steps...)
	return e
}
