package app

import (
	"alcyxob/training-app/internal/config"
	"alcyxob/training-app/internal/instrumentation"
	"alcyxob/training-app/internal/service"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemoryRepositories(t *testing.T) {
	repos, err := OpenRepositories(context.Background(), config.DatabaseConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	defer repos.Close()

	assert.NotNil(t, repos.Accounts)
	assert.NotNil(t, repos.Programs)
	assert.NotNil(t, repos.Exercises)
	assert.NotNil(t, repos.Reports)
	assert.Nil(t, repos.Tx)
}

func TestOpenRepositoriesUnknownDriver(t *testing.T) {
	_, err := OpenRepositories(context.Background(), config.DatabaseConfig{Driver: "sqlite"})
	assert.Error(t, err)
}

func TestServicesShareRepositories(t *testing.T) {
	ctx := context.Background()
	repos, err := OpenRepositories(ctx, config.DatabaseConfig{Driver: config.DriverMemory})
	require.NoError(t, err)

	cfg := config.Config{
		Auth:    config.AuthConfig{BcryptCost: 4},
		Cascade: config.CascadeConfig{Policy: config.CascadeBestEffort},
	}
	services := NewServices(cfg, repos, nil, instrumentation.NewTestInstrumentation())

	account, err := services.Auth.Register(ctx, service.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Username:  "ada",
		Password:  "correct horse battery",
	})
	require.NoError(t, err)
	actor := service.Actor{UserID: account.ID.Hex(), Username: account.Username}

	program, err := services.Program.Create(ctx, actor, service.ProgramInput{Title: "Mornings"})
	require.NoError(t, err)
	_, err = services.Exercise.Create(ctx, actor, program.ID.Hex(), service.ExerciseInput{
		Title:            "Stretch",
		StartingPosition: "Standing",
		Steps:            []string{"Reach up"},
	})
	require.NoError(t, err)

	require.NoError(t, services.Program.Delete(ctx, actor, program.ID.Hex()))
	left, err := repos.Exercises.GetByProgramAndCreator(ctx, program.ID, account.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}
