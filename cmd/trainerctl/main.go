// Command trainerctl runs maintenance tasks against the training database.
package main

import (
	"alcyxob/training-app/internal/app"
	"alcyxob/training-app/internal/config"
	"alcyxob/training-app/internal/logging"
	"alcyxob/training-app/internal/service"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "trainerctl",
		Short:        "Maintenance tasks for the training app",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				log.Warnf("could not read .env: %s", err)
			}
			logging.Setup(logging.LoggerSetupParams{LogToStdout: true, LogLevel: "info"})
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", ".", "directory holding config.yaml")

	root.AddCommand(
		newCreateAdminCmd(&configPath),
		newEnsureIndexesCmd(&configPath),
	)
	return root
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return cfg, err
	}
	if cfg.Database.Driver != config.DriverMongo {
		return cfg, fmt.Errorf("trainerctl needs database.driver %q, got %q", config.DriverMongo, cfg.Database.Driver)
	}
	return cfg, nil
}

// Admin accounts cannot be created over the API.
func newCreateAdminCmd(configPath *string) *cobra.Command {
	var input service.RegisterInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if input.Password == "" {
				input.Password = os.Getenv("ADMIN_PASSWORD")
			}

			ctx := cmd.Context()
			repos, err := app.OpenRepositories(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer repos.Close()

			return createAdmin(ctx, service.NewAuthService(repos.Accounts, service.NewBcryptHasher(cfg.Auth.BcryptCost)), input)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.Username, "username", "", "admin username")
	flags.StringVar(&input.FirstName, "first-name", "", "first name")
	flags.StringVar(&input.LastName, "last-name", "", "last name")
	flags.StringVar(&input.Email, "email", "", "email address")
	flags.StringVar(&input.Password, "password", "", "password (defaults to $ADMIN_PASSWORD)")
	for _, name := range []string{"username", "first-name", "last-name", "email"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func createAdmin(ctx context.Context, auth service.AuthService, input service.RegisterInput) error {
	account, err := auth.RegisterAdmin(ctx, input)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Infof("created admin %s with id %s", account.Username, account.ID.Hex())
	return nil
}

func newEnsureIndexesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create the MongoDB indexes the server relies on",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			// Opening the repositories ensures the indexes.
			repos, err := app.OpenRepositories(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			repos.Close()
			log.Info("indexes are in place")
			return nil
		},
	}
}
