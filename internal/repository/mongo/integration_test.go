//go:build integration

package mongo_test

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/repository"
	repomongo "alcyxob/training-app/internal/repository/mongo"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// startMongo runs a throwaway MongoDB and returns a database with indexes in place.
func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate mongo container: %s", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017/tcp")
	require.NoError(t, err)

	client, err := repomongo.ConnectDB(ctx, fmt.Sprintf("mongodb://%s:%s", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repomongo.DisconnectDB(client) })

	db := client.Database("training_test")
	require.NoError(t, repomongo.EnsureIndexes(ctx, db))
	return db
}

func TestMongoRepositories(t *testing.T) {
	db := startMongo(t)
	ctx := context.Background()

	accounts := repomongo.NewMongoAccountRepository(db)
	programs := repomongo.NewMongoProgramRepository(db)
	exercises := repomongo.NewMongoExerciseRepository(db)
	reports := repomongo.NewMongoReportRepository(db)

	t.Run("accounts", func(t *testing.T) {
		account := &domain.Account{
			Username:     "u" + gofakeit.LetterN(8),
			PasswordHash: "hash",
			FirstName:    gofakeit.FirstName(),
			LastName:     gofakeit.LastName(),
			Email:        gofakeit.Email(),
			IsAdmin:      true,
		}
		id, err := accounts.Create(ctx, account)
		require.NoError(t, err)

		dup := *account
		_, err = accounts.Create(ctx, &dup)
		assert.ErrorIs(t, err, repository.ErrDuplicateKey)

		account.FirstName = "Changed"
		account.IsAdmin = false
		require.NoError(t, accounts.Update(ctx, account))

		stored, err := accounts.GetByUsername(ctx, account.Username)
		require.NoError(t, err)
		assert.Equal(t, id, stored.ID)
		assert.Equal(t, "Changed", stored.FirstName)
		assert.True(t, stored.IsAdmin, "update never touches isAdmin")

		require.NoError(t, accounts.Delete(ctx, id))
		_, err = accounts.GetByID(ctx, id)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("programs and exercises", func(t *testing.T) {
		creator := primitive.NewObjectID()
		programID, err := programs.Create(ctx, &domain.Program{Title: "Legs", Creator: creator})
		require.NoError(t, err)

		for _, title := range []string{"Squat", "Lunge"} {
			_, err := exercises.Create(ctx, &domain.Exercise{
				ProgramID:        programID,
				Title:            title,
				StartingPosition: "Standing",
				Steps:            []string{"Down", "Up"},
				Repetitions:      10,
				RepetitionMethod: domain.RepetitionMethod{Type: "sets", Number: 3},
				ImageKey:         "exercises/" + title,
				Creator:          creator,
			})
			require.NoError(t, err)
		}
		_, err = exercises.Create(ctx, &domain.Exercise{ProgramID: programID, Title: "Foreign", Creator: primitive.NewObjectID()})
		require.NoError(t, err)

		list, err := exercises.GetByProgramAndCreator(ctx, programID, creator)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Squat", list[0].Title)

		list[0].ImageKey = ""
		require.NoError(t, exercises.Update(ctx, &list[0]))
		stored, err := exercises.GetByID(ctx, list[0].ID)
		require.NoError(t, err)
		assert.Empty(t, stored.ImageKey)

		err = exercises.Delete(ctx, list[1].ID, primitive.NewObjectID())
		assert.ErrorIs(t, err, repository.ErrNotFound)
		require.NoError(t, exercises.Delete(ctx, list[1].ID, creator))

		err = programs.Delete(ctx, programID, primitive.NewObjectID())
		assert.ErrorIs(t, err, repository.ErrNotFound)
		require.NoError(t, programs.Delete(ctx, programID, creator))
	})

	t.Run("reports", func(t *testing.T) {
		user := primitive.NewObjectID()
		for _, reps := range []int{5, 7, 9} {
			_, err := reports.Create(ctx, &domain.Report{
				ProgramID:           "p1",
				ProgramTitle:        "Legs",
				ExerciseID:          "e1",
				ExerciseTitle:       "Squat",
				ExecutedRepetitions: reps,
				User:                user,
			})
			require.NoError(t, err)
		}

		list, err := reports.GetByUser(ctx, user)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []int{5, 7, 9}, []int{
			list[0].ExecutedRepetitions, list[1].ExecutedRepetitions, list[2].ExecutedRepetitions,
		})
	})
}
