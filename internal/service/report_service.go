package service

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/repository"
	"alcyxob/training-app/internal/tracing"
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
)

// ReportInput is the snapshot taken when a user finishes an exercise run.
type ReportInput struct {
	ProgramID           string
	ProgramTitle        string
	ExerciseID          string
	ExerciseTitle       string
	ExecutedRepetitions int
	RepetitionMethod    domain.RepetitionMethod
}

// ReportPatch holds the correctable report fields. Titles and ids are snapshots and cannot be patched.
type ReportPatch struct {
	ExecutedRepetitions *int
	RepetitionMethod    *domain.RepetitionMethod
}

type ReportService interface {
	List(ctx context.Context, actor Actor) ([]domain.Report, error)
	Get(ctx context.Context, actor Actor, id string) (*domain.Report, error)
	Create(ctx context.Context, actor Actor, input ReportInput) (*domain.Report, error)
	Update(ctx context.Context, actor Actor, id string, patch ReportPatch) (bool, error)
	Delete(ctx context.Context, actor Actor, id string) error
	// Summary aggregates the caller's report history per program for the performance chart.
	Summary(ctx context.Context, actor Actor) ([]ProgramRepetitions, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
}

func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

func (s *reportService) List(ctx context.Context, actor Actor) ([]domain.Report, error) {
	userID, err := actor.objectID()
	if err != nil {
		return nil, err
	}
	return s.reportRepo.GetByUser(ctx, userID)
}

func (s *reportService) Get(ctx context.Context, actor Actor, id string) (*domain.Report, error) {
	if _, err := actor.objectID(); err != nil {
		return nil, err
	}
	reportID, err := parseID(id, ErrReportNotFound)
	if err != nil {
		return nil, err
	}
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if err := AuthorizeOwner(report, actor); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) Create(ctx context.Context, actor Actor, input ReportInput) (*domain.Report, error) {
	userID, err := actor.objectID()
	if err != nil {
		return nil, err
	}
	for _, f := range []struct{ name, value string }{
		{"programId", input.ProgramID},
		{"programTitle", input.ProgramTitle},
		{"exerciseId", input.ExerciseID},
		{"exerciseTitle", input.ExerciseTitle},
	} {
		if err := requireText(f.name, f.value); err != nil {
			return nil, err
		}
	}
	if err := validateRepetitions("executedRepetitions", input.ExecutedRepetitions); err != nil {
		return nil, err
	}
	if err := validateRepetitionMethod(input.RepetitionMethod); err != nil {
		return nil, err
	}

	report := &domain.Report{
		ProgramID:           input.ProgramID,
		ProgramTitle:        input.ProgramTitle,
		ExerciseID:          input.ExerciseID,
		ExerciseTitle:       input.ExerciseTitle,
		ExecutedRepetitions: input.ExecutedRepetitions,
		RepetitionMethod:    input.RepetitionMethod,
		User:                userID,
	}
	reportID, err := s.reportRepo.Create(ctx, report)
	if err != nil {
		return nil, err
	}
	report.ID = reportID
	return report, nil
}

func (s *reportService) Update(ctx context.Context, actor Actor, id string, patch ReportPatch) (bool, error) {
	if patch.ExecutedRepetitions == nil && patch.RepetitionMethod == nil {
		if _, err := actor.objectID(); err != nil {
			return false, err
		}
		return false, invalid("no updatable report field present")
	}

	report, err := s.Get(ctx, actor, id)
	if err != nil {
		return false, err
	}

	changed := false
	if patch.ExecutedRepetitions != nil {
		if err := validateRepetitions("executedRepetitions", *patch.ExecutedRepetitions); err != nil {
			return false, err
		}
		changed = changed || *patch.ExecutedRepetitions != report.ExecutedRepetitions
		report.ExecutedRepetitions = *patch.ExecutedRepetitions
	}
	if patch.RepetitionMethod != nil {
		if err := validateRepetitionMethod(*patch.RepetitionMethod); err != nil {
			return false, err
		}
		changed = changed || *patch.RepetitionMethod != report.RepetitionMethod
		report.RepetitionMethod = *patch.RepetitionMethod
	}
	if !changed {
		return false, nil
	}

	if err := s.reportRepo.Update(ctx, report); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrReportNotFound
		}
		return false, err
	}
	return true, nil
}

func (s *reportService) Delete(ctx context.Context, actor Actor, id string) error {
	report, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.reportRepo.Delete(ctx, report.ID, report.User); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReportNotFound
		}
		return err
	}
	return nil
}

func (s *reportService) Summary(ctx context.Context, actor Actor) (_ []ProgramRepetitions, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "reportService.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	reports, err := s.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("reports", len(reports)))
	return AggregateReports(reports), nil
}
