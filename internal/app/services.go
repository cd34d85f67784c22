package app

import (
	"alcyxob/training-app/internal/config"
	"alcyxob/training-app/internal/instrumentation"
	"alcyxob/training-app/internal/service"
	"alcyxob/training-app/internal/storage"
)

// Services are the application services built on top of Repositories.
type Services struct {
	Auth     service.AuthService
	Account  service.AccountService
	Program  service.ProgramService
	Exercise service.ExerciseService
	Report   service.ReportService
}

// NewServices wires the services. files may be nil when image storage is disabled.
func NewServices(cfg config.Config, repos *Repositories, files storage.FileStorage, instr *instrumentation.Instrumentation) Services {
	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	cascade := service.NewCascadeDeleter(repos.Exercises, service.CascadePolicy(cfg.Cascade.Policy), instr)

	return Services{
		Auth:     service.NewAuthService(repos.Accounts, hasher),
		Account:  service.NewAccountService(repos.Accounts, hasher),
		Program:  service.NewProgramService(repos.Programs, cascade, repos.Tx, files),
		Exercise: service.NewExerciseService(repos.Programs, repos.Exercises, files),
		Report:   service.NewReportService(repos.Reports),
	}
}
