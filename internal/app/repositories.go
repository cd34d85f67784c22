package app

import (
	"alcyxob/training-app/internal/config"
	"alcyxob/training-app/internal/repository"
	"alcyxob/training-app/internal/repository/memory"
	"alcyxob/training-app/internal/repository/mongo"
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Repositories is the storage layer selected by database.driver.
type Repositories struct {
	Accounts  repository.AccountRepository
	Programs  repository.ProgramRepository
	Exercises repository.ExerciseRepository
	Reports   repository.ReportRepository
	// Tx is nil when the store cannot run multi-document transactions.
	Tx repository.Transactor

	close func()
}

// Close releases the database connection, if any.
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// OpenRepositories connects to the configured store and makes sure its indexes exist.
func OpenRepositories(ctx context.Context, cfg config.DatabaseConfig) (*Repositories, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory repositories, data is lost on restart")
		return &Repositories{
			Accounts:  memory.NewAccountRepository(),
			Programs:  memory.NewProgramRepository(),
			Exercises: memory.NewExerciseRepository(),
			Reports:   memory.NewReportRepository(),
		}, nil
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func openMongo(ctx context.Context, cfg config.DatabaseConfig) (*Repositories, error) {
	client, err := mongo.ConnectDB(ctx, cfg.URI)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Name)

	indexCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := mongo.EnsureIndexes(indexCtx, db); err != nil {
		_ = mongo.DisconnectDB(client)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	repos := &Repositories{
		Accounts:  mongo.NewMongoAccountRepository(db),
		Programs:  mongo.NewMongoProgramRepository(db),
		Exercises: mongo.NewMongoExerciseRepository(db),
		Reports:   mongo.NewMongoReportRepository(db),
		close: func() {
			log.Info("disconnecting MongoDB...")
			if err := mongo.DisconnectDB(client); err != nil {
				log.Errorf("failed to disconnect MongoDB: %s", err)
			}
		},
	}
	if cfg.UseTransactions {
		repos.Tx = mongo.NewMongoTransactor(client)
	}
	return repos, nil
}
