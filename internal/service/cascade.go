package service

import (
	"alcyxob/training-app/internal/instrumentation"
	"alcyxob/training-app/internal/repository"
	"alcyxob/training-app/internal/tracing"
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

// CascadePolicy decides what happens to a program when one of its exercises cannot be deleted.
type CascadePolicy string

const (
	// CascadeStrict keeps the program when any exercise deletion failed.
	CascadeStrict CascadePolicy = "strict"
	// CascadeBestEffort logs failed exercise deletions and lets the program delete proceed.
	CascadeBestEffort CascadePolicy = "best_effort"
)

// CascadeDeleter removes the exercises of a program before the program itself is deleted.
type CascadeDeleter struct {
	exerciseRepo repository.ExerciseRepository
	policy       CascadePolicy
	instr        *instrumentation.Instrumentation
}

// NewCascadeDeleter creates a CascadeDeleter. instr may be nil.
func NewCascadeDeleter(exerciseRepo repository.ExerciseRepository, policy CascadePolicy, instr *instrumentation.Instrumentation) *CascadeDeleter {
	if policy != CascadeBestEffort {
		policy = CascadeStrict
	}
	return &CascadeDeleter{
		exerciseRepo: exerciseRepo,
		policy:       policy,
		instr:        instr,
	}
}

// DeleteProgramExercises deletes, one at a time, every exercise of programID created by userID,
// and returns the image keys of the exercises that are gone.
//
// A failed lookup aborts before anything is deleted. Under CascadeStrict any failed deletion yields
// ErrCascadeIncomplete and the caller must not delete the program.
func (c *CascadeDeleter) DeleteProgramExercises(ctx context.Context, programID, userID primitive.ObjectID) (imageKeys []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cascade.deleteProgramExercises")
	span.SetAttributes(
		attribute.String("program_id", programID.Hex()),
		attribute.String("policy", string(c.policy)),
	)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
		c.observe(err)
	}()

	exercises, err := c.exerciseRepo.GetByProgramAndCreator(ctx, programID, userID)
	if err != nil {
		return nil, fmt.Errorf("list exercises of program %s: %w", programID.Hex(), err)
	}
	span.SetAttributes(attribute.Int("exercises", len(exercises)))

	var failures error
	for i := range exercises {
		exercise := &exercises[i]
		if authErr := Authorize(exercise.OwnerID(), userID.Hex()); authErr != nil {
			failures = multierr.Append(failures, fmt.Errorf("exercise %s: %w", exercise.ID.Hex(), authErr))
			continue
		}
		if delErr := c.exerciseRepo.Delete(ctx, exercise.ID, userID); delErr != nil {
			failures = multierr.Append(failures, fmt.Errorf("exercise %s: %w", exercise.ID.Hex(), delErr))
			continue
		}
		if exercise.ImageKey != "" {
			imageKeys = append(imageKeys, exercise.ImageKey)
		}
	}

	if failures == nil {
		return imageKeys, nil
	}

	failed := len(multierr.Errors(failures))
	if c.policy == CascadeBestEffort {
		log.Warnf("cascade delete of program %s: %d of %d exercise deletions failed, continuing: %s",
			programID.Hex(), failed, len(exercises), failures)
		return imageKeys, nil
	}

	log.Errorf("cascade delete of program %s: %d of %d exercise deletions failed: %s",
		programID.Hex(), failed, len(exercises), failures)
	return imageKeys, fmt.Errorf("%w: %d of %d exercises not deleted: %w", ErrCascadeIncomplete, failed, len(exercises), failures)
}

func (c *CascadeDeleter) observe(err error) {
	if c.instr == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	c.instr.CounterCascadeDeletes.WithLabelValues(outcome).Inc()
}
