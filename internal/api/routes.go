package api

import (
	"alcyxob/training-app/internal/instrumentation"
	"alcyxob/training-app/internal/service"
	"alcyxob/training-app/internal/session"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dependencies is everything SetupRoutes wires into the router.
type Dependencies struct {
	AuthService     service.AuthService
	AccountService  service.AccountService
	ProgramService  service.ProgramService
	ExerciseService service.ExerciseService
	ReportService   service.ReportService

	Sessions        *session.Manager
	Instrumentation *instrumentation.Instrumentation

	// RateLimiter guards login. Nil disables the limit.
	RateLimiter        RequestRateLimiter
	LoginRatePerMinute int

	AllowedOrigins []string
	Production     bool

	// MetricsHandler is mounted on GET /metrics when set.
	MetricsHandler http.Handler
	// Static holds the single-page client; index.html must be at its root. Nil serves no client.
	Static fs.FS
}

func SetupRoutes(router *gin.Engine, deps Dependencies) error {
	authHandler := NewAuthHandler(deps.AuthService, deps.Sessions, deps.Instrumentation)
	accountHandler := NewAccountHandler(deps.AccountService)
	programHandler := NewProgramHandler(deps.ProgramService)
	exerciseHandler := NewExerciseHandler(deps.ExerciseService)
	reportHandler := NewReportHandler(deps.ReportService)

	router.Use(
		RequestID(),
		PanicRecovery(deps.Instrumentation, deps.Production),
		LogRequest(),
	)
	if deps.Instrumentation != nil {
		router.Use(RequestMetrics(deps.Instrumentation))
	}
	router.Use(
		Cors(deps.AllowedOrigins),
		ErrorResponder(deps.Production),
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if deps.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	requireSession := RequireSession(deps.Sessions, deps.AuthService)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, MessageResponse{Message: "Welcome to version 1 of this RESTful API!"})
		})

		accounts := apiV1.Group("/accounts")
		{
			accounts.POST("/register", authHandler.Register)
			if deps.RateLimiter != nil && deps.LoginRatePerMinute > 0 {
				accounts.POST("/login", RateLimit(deps.RateLimiter, "login", deps.LoginRatePerMinute), authHandler.Login)
			} else {
				accounts.POST("/login", authHandler.Login)
			}
			accounts.GET("/check-session", authHandler.CheckSession)
			accounts.POST("/logout", authHandler.Logout)

			admin := accounts.Group("", requireSession, RequireAdmin())
			{
				admin.GET("", accountHandler.ListAccounts)
				admin.GET("/:id", accountHandler.GetAccount)
				admin.PATCH("/:id", accountHandler.UpdateAccount)
				admin.DELETE("/:id", accountHandler.DeleteAccount)
			}
		}

		programs := apiV1.Group("/programs", requireSession)
		{
			programs.GET("", programHandler.ListPrograms)
			programs.POST("", programHandler.CreateProgram)
			programs.GET("/:programId", programHandler.GetProgram)
			programs.PATCH("/:programId", programHandler.UpdateProgram)
			programs.DELETE("/:programId", programHandler.DeleteProgram)

			exercises := programs.Group("/:programId/exercises")
			{
				exercises.GET("", exerciseHandler.ListExercises)
				exercises.POST("", exerciseHandler.CreateExercise)
				exercises.GET("/:exerciseId", exerciseHandler.GetExercise)
				exercises.PATCH("/:exerciseId", exerciseHandler.UpdateExercise)
				exercises.DELETE("/:exerciseId", exerciseHandler.DeleteExercise)
				exercises.POST("/:exerciseId/image", exerciseHandler.RequestImageUpload)
				exercises.GET("/:exerciseId/image", exerciseHandler.GetImageURL)
			}
		}

		reports := apiV1.Group("/reports", requireSession)
		{
			reports.GET("", reportHandler.ListReports)
			reports.POST("", reportHandler.CreateReport)
			reports.GET("/summary", reportHandler.ReportSummary)
			reports.GET("/:id", reportHandler.GetReport)
			reports.PATCH("/:id", reportHandler.UpdateReport)
			reports.DELETE("/:id", reportHandler.DeleteReport)
		}
	}

	if deps.Static == nil {
		router.NoRoute(func(c *gin.Context) {
			fail(c, &HTTPError{Status: http.StatusNotFound, Err: errNoRoute(c)})
		})
		return nil
	}

	shell, err := StaticShell(deps.Static)
	if err != nil {
		return err
	}
	router.NoRoute(shell)
	return nil
}
