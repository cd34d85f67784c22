package memory

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type reportRepository struct {
	t *table[domain.Report]
}

// NewReportRepository creates an empty in-memory repository.ReportRepository.
func NewReportRepository() repository.ReportRepository {
	return &reportRepository{t: newTable[domain.Report]()}
}

func (r *reportRepository) Create(_ context.Context, report *domain.Report) (primitive.ObjectID, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	report.ID = primitive.NewObjectID()
	report.CreatedAt = now()
	report.UpdatedAt = report.CreatedAt
	r.t.insert(report.ID, *report)
	return report.ID, nil
}

func (r *reportRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Report, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()

	report, ok := r.t.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &report, nil
}

func (r *reportRepository) GetByUser(_ context.Context, userID primitive.ObjectID) ([]domain.Report, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	return r.t.filter(func(rep domain.Report) bool { return rep.User == userID }), nil
}

func (r *reportRepository) Update(_ context.Context, report *domain.Report) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	stored, ok := r.t.rows[report.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.ExecutedRepetitions = report.ExecutedRepetitions
	stored.RepetitionMethod = report.RepetitionMethod
	stored.UpdatedAt = now()
	r.t.rows[report.ID] = stored
	report.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *reportRepository) Delete(_ context.Context, id primitive.ObjectID, userID primitive.ObjectID) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	stored, ok := r.t.rows[id]
	if !ok || stored.User != userID {
		return repository.ErrNotFound
	}
	r.t.remove(id)
	return nil
}
