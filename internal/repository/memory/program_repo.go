package memory

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type programRepository struct {
	t *table[domain.Program]
}

// NewProgramRepository creates an empty in-memory repository.ProgramRepository.
func NewProgramRepository() repository.ProgramRepository {
	return &programRepository{t: newTable[domain.Program]()}
}

func (r *programRepository) Create(_ context.Context, program *domain.Program) (primitive.ObjectID, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	program.ID = primitive.NewObjectID()
	program.CreatedAt = now()
	program.UpdatedAt = program.CreatedAt
	r.t.insert(program.ID, *program)
	return program.ID, nil
}

func (r *programRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Program, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	program, ok := r.t.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &program, nil
}

func (r *programRepository) GetByCreator(_ context.Context, creatorID primitive.ObjectID) ([]domain.Program, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return r.t.filter(func(p domain.Program) bool { return p.Creator == creatorID }), nil
}

func (r *programRepository) Update(_ context.Context, program *domain.Program) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	stored, ok := r.t.rows[program.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title = program.Title
	stored.Description = program.Description
	stored.UpdatedAt = now()
	r.t.rows[program.ID] = stored
	program.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *programRepository) Delete(_ context.Context, id primitive.ObjectID, creatorID primitive.ObjectID) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	stored, ok := r.t.rows[id]
	if !ok || stored.Creator != creatorID {
		return repository.ErrNotFound
	}
	r.t.remove(id)
	return nil
}
