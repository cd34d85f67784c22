package service_test

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/repository/memory"
	"alcyxob/training-app/internal/service"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestExerciseService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newTrainingFixture()
	alice := newActor()
	program, err := f.programs.Create(ctx, alice, service.ProgramInput{Title: "P"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*service.ExerciseInput)
	}{
		{"missing title", func(in *service.ExerciseInput) { in.Title = "" }},
		{"missing starting position", func(in *service.ExerciseInput) { in.StartingPosition = "" }},
		{"no steps", func(in *service.ExerciseInput) { in.Steps = nil }},
		{"blank step", func(in *service.ExerciseInput) { in.Steps = []string{"ok", " "} }},
		{"negative repetitions", func(in *service.ExerciseInput) { in.Repetitions = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := newExerciseInput()
			tt.mutate(&input)
			_, err := f.exercises.Create(ctx, alice, program.ID.Hex(), input)
			assert.ErrorIs(t, err, service.ErrValidationFailed)
		})
	}

	input := newExerciseInput()
	input.Repetitions = 0
	input.RepetitionMethod = domain.RepetitionMethod{}
	exercise, err := f.exercises.Create(ctx, alice, program.ID.Hex(), input)
	require.NoError(t, err)
	assert.Equal(t, program.ID, exercise.ProgramID)
	assert.Equal(t, oid(alice.UserID), exercise.Creator)
}

func TestExerciseService_ParentChecks(t *testing.T) {
	ctx := context.Background()
	f := newTrainingFixture()
	alice, bob := newActor(), newActor()

	programA, err := f.programs.Create(ctx, alice, service.ProgramInput{Title: "A"})
	require.NoError(t, err)
	programB, err := f.programs.Create(ctx, alice, service.ProgramInput{Title: "B"})
	require.NoError(t, err)
	exercise, err := f.exercises.Create(ctx, alice, programA.ID.Hex(), newExerciseInput())
	require.NoError(t, err)

	_, err = f.exercises.Get(ctx, alice, programB.ID.Hex(), exercise.ID.Hex())
	assert.ErrorIs(t, err, service.ErrExerciseNotFound, "exercise is addressed through the wrong program")

	_, err = f.exercises.Get(ctx, bob, programA.ID.Hex(), exercise.ID.Hex())
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.exercises.Create(ctx, bob, programA.ID.Hex(), newExerciseInput())
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.exercises.List(ctx, alice, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, service.ErrProgramNotFound)

	got, err := f.exercises.Get(ctx, alice, programA.ID.Hex(), exercise.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, exercise.Steps, got.Steps)
}

func TestExerciseService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newTrainingFixture()
	alice := newActor()
	program, err := f.programs.Create(ctx, alice, service.ProgramInput{Title: "P"})
	require.NoError(t, err)
	input := newExerciseInput()
	exercise, err := f.exercises.Create(ctx, alice, program.ID.Hex(), input)
	require.NoError(t, err)
	pid, eid := program.ID.Hex(), exercise.ID.Hex()

	_, err = f.exercises.Update(ctx, alice, pid, eid, service.ExercisePatch{})
	assert.ErrorIs(t, err, service.ErrValidationFailed)

	changed, err := f.exercises.Update(ctx, alice, pid, eid, service.ExercisePatch{
		Steps:            ptr(append([]string(nil), input.Steps...)),
		RepetitionMethod: ptr(input.RepetitionMethod),
	})
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = f.exercises.Update(ctx, alice, pid, eid, service.ExercisePatch{
		Steps:       ptr([]string{"one", "two", "three"}),
		Repetitions: ptr(12),
	})
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := f.exercises.Get(ctx, alice, pid, eid)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, got.Steps)
	assert.Equal(t, 12, got.Repetitions)

	assert.ErrorIs(t, f.exercises.Delete(ctx, newActor(), pid, eid), service.ErrForbidden)
	require.NoError(t, f.exercises.Delete(ctx, alice, pid, eid))
	_, err = f.exercises.Get(ctx, alice, pid, eid)
	assert.ErrorIs(t, err, service.ErrExerciseNotFound)
}

func TestExerciseService_Images(t *testing.T) {
	ctx := context.Background()
	f := newTrainingFixture()
	alice := newActor()
	program, err := f.programs.Create(ctx, alice, service.ProgramInput{Title: "P"})
	require.NoError(t, err)
	exercise, err := f.exercises.Create(ctx, alice, program.ID.Hex(), newExerciseInput())
	require.NoError(t, err)
	pid, eid := program.ID.Hex(), exercise.ID.Hex()

	_, err = f.exercises.ImageURL(ctx, alice, pid, eid)
	assert.ErrorIs(t, err, service.ErrImageNotFound)

	_, err = f.exercises.ImageUploadURL(ctx, alice, pid, eid, "text/plain")
	assert.ErrorIs(t, err, service.ErrValidationFailed)

	first, err := f.exercises.ImageUploadURL(ctx, alice, pid, eid, "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.ObjectKey, "exercises/"+eid+"/"))
	assert.Contains(t, first.UploadURL, first.ObjectKey)

	second, err := f.exercises.ImageUploadURL(ctx, alice, pid, eid, "image/png")
	require.NoError(t, err)
	assert.Equal(t, []string{first.ObjectKey}, f.files.deletedKeys(), "replaced image is released")

	url, err := f.exercises.ImageURL(ctx, alice, pid, eid)
	require.NoError(t, err)
	assert.Contains(t, url, second.ObjectKey)

	require.NoError(t, f.exercises.Delete(ctx, alice, pid, eid))
	assert.Equal(t, []string{first.ObjectKey, second.ObjectKey}, f.files.deletedKeys())
}

func TestExerciseService_ImagesDisabled(t *testing.T) {
	exercises := service.NewExerciseService(memory.NewProgramRepository(), memory.NewExerciseRepository(), nil)
	actor := newActor()

	_, err := exercises.ImageUploadURL(context.Background(), actor, primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), "image/png")
	assert.ErrorIs(t, err, service.ErrStorageDisabled)
	_, err = exercises.ImageURL(context.Background(), actor, primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, service.ErrStorageDisabled)
}
