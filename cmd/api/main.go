package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/tanishq4141/PROJECT-ALPHA/api/swagger"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/handler"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/repository"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/router"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/service"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/cache"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/config"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/database"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/events"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/jobs"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/logger"
)

// @title PROJECT-ALPHA API
// @version 1.0.0
// @description Classroom assignments: batches, multiple-choice quizzes, submissions and gradebooks.
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := database.Migrate(db, cfg.Database.Name); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	metrics := service.NewMetricsService()
	probes := map[string]handler.Probe{"postgres": db.PingContext}

	var redisClient *redis.Client
	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		probes["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Events.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.Events.KafkaBrokers, cfg.Events.KafkaTopic)
		publisher = producer
		logr.Info("publishing lifecycle events", zap.Strings("brokers", cfg.Events.KafkaBrokers), zap.String("topic", producer.Topic()))
	}
	defer publisher.Close() //nolint:errcheck

	userRepo := repository.NewUserRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	validate := service.NewValidator()

	activity := service.NewActivityService(auditRepo, publisher, metrics, logr, jobs.QueueConfig{
		Workers:    cfg.Events.Workers,
		BufferSize: cfg.Events.BufferSize,
		MaxRetries: cfg.Events.MaxRetries,
		RetryDelay: cfg.Events.RetryDelay,
	})
	activity.Start()

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})
	assignmentSvc := service.NewAssignmentService(assignmentRepo, batchRepo, userRepo, recordRepo, auditRepo, cacheSvc, metrics, activity, validate, logr)
	submissionSvc := service.NewSubmissionService(assignmentRepo, recordRepo, metrics, activity, validate, logr)
	batchSvc := service.NewBatchService(batchRepo, userRepo, metrics, activity, validate, logr)
	gradebookSvc := service.NewGradebookService(batchRepo, recordRepo, logr)

	engine := router.New(cfg, router.Dependencies{
		AuthHandler: handler.NewAuthHandler(authSvc, handler.CookieSettings{
			Name:   cfg.Cookie.Name,
			Domain: cfg.Cookie.Domain,
			Secure: cfg.Cookie.Secure,
		}),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentSvc, submissionSvc),
		BatchHandler:      handler.NewBatchHandler(batchSvc, gradebookSvc),
		MetricsHandler:    handler.NewMetricsHandler(metrics, probes),
		Metrics:           metrics,
		Tokens:            authSvc,
		Logger:            logr,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	activity.Stop()
}
