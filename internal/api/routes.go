package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// RouterConfig carries the non-service dependencies of the router. Metrics,
// MetricsHandler and RateLimiter are optional.
type RouterConfig struct {
	JWTSecret         string
	Metrics           *metrics.Manager
	MetricsPath       string
	MetricsHandler    http.Handler
	RateLimiter       RequestRateLimiter
	RequestsPerMinute int
}

// Services bundles the service layer handed to the handlers.
type Services struct {
	Auth     service.AuthService
	Users    service.UserService
	Exercise service.ExerciseService
	Workouts service.WorkoutService
	Stats    service.StatsService
	Programs service.ProgramService
	Shares   service.ShareService
}

func SetupRoutes(router *gin.Engine, cfg RouterConfig, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Users)
	exerciseHandler := NewExerciseHandler(svc.Exercise)
	workoutHandler := NewWorkoutHandler(svc.Workouts)
	statsHandler := NewStatsHandler(svc.Stats)
	programHandler := NewProgramHandler(svc.Programs)
	shareHandler := NewShareHandler(svc.Shares)

	router.Use(PanicRecovery(cfg.Metrics), RequestLogger())
	if cfg.Metrics != nil {
		router.Use(RequestMetrics(cfg.Metrics))
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(cfg.MetricsHandler))
	}

	apiV1 := router.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	if cfg.RateLimiter != nil {
		authGroup.Use(RateLimit(cfg.RateLimiter, "auth", cfg.RequestsPerMinute, cfg.Metrics))
	}
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(cfg.JWTSecret))
	if cfg.RateLimiter != nil {
		protected.Use(RateLimit(cfg.RateLimiter, "api", cfg.RequestsPerMinute, cfg.Metrics))
	}
	{
		protected.GET("/me", userHandler.GetMe)

		// --- Exercise catalog ---
		protected.GET("/exercises", exerciseHandler.ListExercises)
		protected.GET("/exercises/:exerciseId", exerciseHandler.GetExercise)

		// --- Workout history ---
		protected.POST("/workouts", workoutHandler.SaveWorkout)
		protected.GET("/sessions", workoutHandler.ListSessions)
		protected.GET("/sessions/:sessionId", workoutHandler.GetSession)
		protected.PATCH("/sessions/:sessionId", workoutHandler.UpdateSession)
		protected.PATCH("/sets/:setId", workoutHandler.UpdateSet)

		// --- Stats ---
		statsGroup := protected.Group("/stats")
		{
			statsGroup.GET("", statsHandler.GlobalStats)
			statsGroup.GET("/recent", statsHandler.RecentExercises)
			statsGroup.GET("/exercises", statsHandler.ExerciseStatsBatch)
			statsGroup.GET("/exercises/:exerciseId", statsHandler.ExerciseStats)
		}

		// --- Programs and shares ---
		programGroup := protected.Group("/programs")
		{
			programGroup.GET("", programHandler.ListPrograms)
			programGroup.POST("", programHandler.CreateProgram)
			programGroup.GET("/:programId", programHandler.GetProgram)
			programGroup.PUT("/:programId", programHandler.UpdateProgram)
			programGroup.DELETE("/:programId", programHandler.DeleteProgram)
			programGroup.POST("/:programId/exercises", programHandler.AddExercise)
			programGroup.DELETE("/:programId/exercises/:programExerciseId", programHandler.RemoveExercise)
			programGroup.POST("/:programId/shares", shareHandler.ShareProgram)
		}
		protected.GET("/shares", shareHandler.ListShares)
		protected.DELETE("/shares/:shareId", shareHandler.DeleteShare)

		// --- Admin ---
		// The services re-check the role; this group only rejects early.
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.GET("/users", userHandler.ListUsers)
			adminGroup.PATCH("/users/:userId/role", userHandler.UpdateRole)
			adminGroup.DELETE("/users/:userId", userHandler.DeleteUser)
			adminGroup.POST("/exercises/:exerciseId/image", exerciseHandler.AttachImage)
		}
	}
}
