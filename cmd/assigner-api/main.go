package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/ref-assign-api/internal/dto"
	"github.com/noah-isme/ref-assign-api/internal/handler"
	"github.com/noah-isme/ref-assign-api/internal/middleware"
	"github.com/noah-isme/ref-assign-api/internal/repository"
	"github.com/noah-isme/ref-assign-api/internal/service"
	"github.com/noah-isme/ref-assign-api/pkg/cache"
	"github.com/noah-isme/ref-assign-api/pkg/config"
	"github.com/noah-isme/ref-assign-api/pkg/database"
	"github.com/noah-isme/ref-assign-api/pkg/export"
	"github.com/noah-isme/ref-assign-api/pkg/jobs"
	"github.com/noah-isme/ref-assign-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/ref-assign-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/ref-assign-api/pkg/middleware/requestid"
)

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	officialRepo := repository.NewOfficialRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	gameRepo := repository.NewGameRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	reportCache := repository.NewRunReportCache(redisClient, cfg.Assigner.ReportCacheTTL)

	metricsSvc := service.NewMetricsService()

	runSvc := service.NewAssignmentRunService(
		officialRepo,
		gameRepo,
		assignmentRepo,
		reportCache,
		db,
		metricsSvc,
		export.NewCSVExporter(),
		export.NewPDFExporter(),
		validate,
		logr,
		service.AssignmentRunConfig{
			ConflictBufferHours: cfg.Assigner.ConflictBufferHours,
			TopKWindow:          cfg.Assigner.TopKWindow,
			ExportTitle:         cfg.Reports.Title,
		},
	)
	officialSvc := service.NewOfficialService(officialRepo, availabilityRepo, validate, logr)
	gameSvc := service.NewGameService(gameRepo, validate, logr)

	runQueue := jobs.NewQueue("assignment-runs", func(ctx context.Context, job jobs.Job[dto.RunAssignmentsRequest]) error {
		_, err := runSvc.Execute(ctx, job.Payload)
		return err
	}, jobs.QueueConfig{
		Workers:    cfg.Assigner.WorkerConcurrency,
		MaxRetries: cfg.Assigner.WorkerRetries,
		Logger:     logr,
	})
	runQueue.Start(context.Background())
	defer runQueue.Stop()

	assignmentHandler := handler.NewAssignmentHandler(runSvc, runQueue)
	officialHandler := handler.NewOfficialHandler(officialSvc)
	gameHandler := handler.NewGameHandler(gameSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/officials", officialHandler.List)
		api.POST("/officials", officialHandler.Create)
		api.GET("/officials/:id", officialHandler.Get)
		api.DELETE("/officials/:id", officialHandler.Deactivate)
		api.GET("/officials/:id/windows", officialHandler.Windows)
		api.POST("/officials/:id/windows", officialHandler.SubmitWindow)
		api.DELETE("/officials/:id/windows/:windowId", officialHandler.RemoveWindow)
		api.POST("/officials/:id/availability/check", officialHandler.CheckAvailability)
		api.GET("/officials/:id/assignments", assignmentHandler.ListByOfficial)

		api.GET("/games", gameHandler.List)
		api.POST("/games", gameHandler.Create)
		api.GET("/games/:id", gameHandler.Get)
		api.GET("/games/:id/assignments", assignmentHandler.ListByGame)

		api.POST("/assignments/run", assignmentHandler.Run)
		api.POST("/assignments/run/async", assignmentHandler.RunAsync)
		api.GET("/assignments/report", assignmentHandler.LatestReport)
		if cfg.Reports.Enabled {
			api.GET("/assignments/report/export", assignmentHandler.Export)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
