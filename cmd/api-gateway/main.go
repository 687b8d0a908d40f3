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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/peakstart/ledger-api/api/swagger"
	"github.com/peakstart/ledger-api/db/migrations"
	"github.com/peakstart/ledger-api/internal/handler"
	internalmiddleware "github.com/peakstart/ledger-api/internal/middleware"
	"github.com/peakstart/ledger-api/internal/repository"
	"github.com/peakstart/ledger-api/internal/service"
	"github.com/peakstart/ledger-api/pkg/cache"
	"github.com/peakstart/ledger-api/pkg/config"
	"github.com/peakstart/ledger-api/pkg/database"
	"github.com/peakstart/ledger-api/pkg/logger"
	corsmiddleware "github.com/peakstart/ledger-api/pkg/middleware/cors"
	reqidmiddleware "github.com/peakstart/ledger-api/pkg/middleware/requestid"
)

// @title PeakStart Ledger API
// @version 1.0.0
// @description Site-operations ledger for construction sites
// @BasePath /
// @schemes http

const shutdownTimeout = 10 * time.Second

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

	ctx := context.Background()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, migrations.Files, logr); err != nil {
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Summary.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, summary cache disabled", zap.Error(err))
		}
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Summary.CacheTTL, logr, redisClient != nil)

	siteRepo := repository.NewSiteRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	activityRepo := repository.NewDailyActivityRepository(db)
	costRepo := repository.NewCostRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)

	validate := service.NewValidator()
	siteSvc := service.NewSiteService(siteRepo, cacheSvc, validate, logr)
	workerSvc := service.NewWorkerService(workerRepo, siteRepo, cacheSvc, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, workerRepo, cacheSvc, validate, logr)
	activitySvc := service.NewDailyActivityService(activityRepo, siteRepo, cacheSvc, validate, logr)
	costSvc := service.NewCostService(costRepo, siteRepo, workerRepo, activityRepo, cacheSvc, validate, logr)
	summarySvc := service.NewSummaryService(summaryRepo, cacheSvc, metricsSvc, cfg.Summary.CacheTTL, logr)
	exportSvc := service.NewExportService(costRepo, metricsSvc, logr)

	checks := map[string]handler.DependencyCheck{"postgres": db.PingContext}
	if redisClient != nil {
		checks["redis"] = cacheRepo.Ping
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metricsSvc != nil {
		r.GET(cfg.Metrics.Path, metricsHandler.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Sites:           handler.NewSiteHandler(siteSvc, summarySvc),
		Workers:         handler.NewWorkerHandler(workerSvc, summarySvc),
		Attendance:      handler.NewAttendanceHandler(attendanceSvc),
		DailyActivities: handler.NewDailyActivityHandler(activitySvc),
		Costs:           handler.NewCostHandler(costSvc, summarySvc, exportSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logr.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
