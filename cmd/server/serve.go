package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/workout-tracker/internal/api"
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.JWT.Secret == "" {
		return errors.New("jwt.secret must be set (JWT_SECRET)")
	}
	ctx := cmd.Context()

	store, closeStore, err := openStore(ctx, cfg.Database, true)
	if err != nil {
		return err
	}
	defer closeStore()

	var opts []service.Option
	if cfg.S3.BucketName != "" {
		fileStorage, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return fmt.Errorf("initialize S3 storage: %w", err)
		}
		opts = append(opts, service.WithImageStorage(fileStorage, cfg.S3.PresignExpiry))
	} else {
		log.Warn("s3.bucket_name is empty; exercise images are served as stored")
	}

	routerCfg := api.RouterConfig{
		JWTSecret:         cfg.JWT.Secret,
		RequestsPerMinute: cfg.Redis.RequestsPerMinute,
	}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m := metrics.NewManager("workout_tracker", "server", reg)
		opts = append(opts, service.WithMetrics(m))
		routerCfg.Metrics = m
		routerCfg.MetricsPath = cfg.Metrics.Path
		routerCfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.WithError(err).Warn("Redis is unreachable; requests pass unlimited until it recovers")
		}
		cancel()
		routerCfg.RateLimiter = redis_rate.NewLimiter(rdb)
	}

	if cfg.Log.Level != "debug" && cfg.Log.Level != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	api.SetupRoutes(router, routerCfg, newServices(store, cfg, opts))

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-quit:
	}
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("Server exiting.")
	return nil
}

func newServices(store *repository.Store, cfg config.Config, opts []service.Option) api.Services {
	return api.Services{
		Auth:     service.NewAuthService(store.Users, cfg.JWT.Secret, cfg.JWT.Expiration),
		Users:    service.NewUserService(store.Users),
		Exercise: service.NewExerciseService(store.Exercises, cfg.Catalog.PageSize, opts...),
		Workouts: service.NewWorkoutService(store.Sessions, store.Logs, store.Sets, store.Exercises, opts...),
		Stats:    service.NewStatsService(store.Logs, store.Sets, store.Exercises, opts...),
		Programs: service.NewProgramService(store.Programs, store.ProgramExercises, store.Shares, store.Exercises, opts...),
		Shares:   service.NewShareService(store.Shares, store.Programs, store.Users),
	}
}
