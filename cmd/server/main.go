package main

import (
	"alcyxob/training-app/internal/api"
	"alcyxob/training-app/internal/app"
	"alcyxob/training-app/internal/config"
	"alcyxob/training-app/internal/instrumentation"
	"alcyxob/training-app/internal/logging"
	"alcyxob/training-app/internal/session"
	"alcyxob/training-app/internal/storage"
	"alcyxob/training-app/web"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// @title Training API
// @version 1.0
// @description Training programs, exercises and exercise reports.
// @BasePath /api/v1
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name training.sid
func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("could not read .env: %s", err)
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.ToStdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Infof("starting training server, environment: %s", cfg.Environment)

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
	log.Info("server exiting")
}

func run(cfg config.Config) error {
	ctx := context.Background()

	repos, err := app.OpenRepositories(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open repositories: %w", err)
	}
	defer repos.Close()

	var redisClient *redis.Client
	if cfg.Session.Store == config.StoreRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Errorf("close redis client: %s", err)
			}
		}()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis at %s: %w", cfg.Redis.Address, err)
		}
	}

	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return fmt.Errorf("init S3 storage: %w", err)
		}
	} else {
		log.Warn("s3.bucket_name not set, exercise images are disabled")
	}

	instr := instrumentation.NewInstrumentation("training", "server")
	services := app.NewServices(cfg, repos, fileStorage, instr)

	static, err := web.Static()
	if err != nil {
		return fmt.Errorf("load static client: %w", err)
	}

	deps := api.Dependencies{
		AuthService:     services.Auth,
		AccountService:  services.Account,
		ProgramService:  services.Program,
		ExerciseService: services.Exercise,
		ReportService:   services.Report,
		Sessions: session.NewManager(newSessionStore(cfg.Session, redisClient), session.ManagerOptions{
			CookieName: cfg.Session.Name,
			Secret:     cfg.Session.Secret,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.IsProduction(),
		}),
		Instrumentation:    instr,
		LoginRatePerMinute: cfg.Auth.LoginRatePerMinute,
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		Production:         cfg.IsProduction(),
		MetricsHandler:     promhttp.Handler(),
		Static:             static,
	}
	if redisClient != nil {
		deps.RateLimiter = redis_rate.NewLimiter(redisClient)
	} else if cfg.Auth.LoginRatePerMinute > 0 {
		log.Warn("login rate limiting needs redis, running without it")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := api.SetupRoutes(router, deps); err != nil {
		return fmt.Errorf("setup routes: %w", err)
	}

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen and serve: %w", err)
	case sig := <-quit:
		log.Infof("received %s, shutting down server...", sig)
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func newSessionStore(cfg config.SessionConfig, redisClient *redis.Client) session.Store {
	if cfg.Store == config.StoreMemory {
		log.Warn("using in-memory session store, sessions are lost on restart")
		return session.NewMemoryStore(cfg.TTL)
	}
	return session.NewRedisStore(redisClient, cfg.TTL)
}
