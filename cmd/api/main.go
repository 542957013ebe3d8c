package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsRepoPg "activity-report-service/internal/analytics/adapters/postgres"
	analyticsUsecase "activity-report-service/internal/analytics/core/usecase"

	reportHttp "activity-report-service/internal/report/adapters/http/fiber"
	reportRepoPg "activity-report-service/internal/report/adapters/postgres"
	reportUsecase "activity-report-service/internal/report/core/usecase"
	"activity-report-service/internal/report/render"

	"activity-report-service/internal/infra"

	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	_ "activity-report-service/docs"
)

// @title Activity Report Service API
// @version 1.0
// @description Aggregates platform activity and renders archived period reports
// @BasePath /
func main() {
	// Config
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// DB connection
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatal("failed to open postgres", zap.Error(err))
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		logger.Fatal("failed to ping postgres", zap.Error(err))
	}

	// Adapter-level DB wrappers
	analyticsDB := analyticsRepoPg.NewSQLDB(db)
	reportDB := reportRepoPg.NewSQLDB(db)

	// Repositories
	eventStore := analyticsRepoPg.NewEventStoreRepository(analyticsDB)
	archive := reportRepoPg.NewArchiveRepository(reportDB)

	// Usecases
	catalogCache := analyticsUsecase.NewCatalogCache()
	aggregator := analyticsUsecase.NewMetricsAggregator(eventStore, catalogCache, logger)
	layout := render.NewEngine(logger, render.Options{
		LabelMinPercent: cfg.Report.LabelMinPercent,
		LegendMax:       cfg.Report.LegendMax,
	})
	generateUC := reportUsecase.NewGenerateReportUseCase(aggregator, layout, archive, logger)

	// HTTP (Fiber) app + handlers
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	reportHandler := reportHttp.NewReportHandler(generateUC, archive)
	app.Post("/reports", reportHandler.GenerateReport)
	app.Get("/reports", reportHandler.ListReports)
	app.Get("/reports/:id", reportHandler.GetReport)
	app.Get("/reports/:id/document", reportHandler.DownloadReport)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.Server.Addr()); err != nil {
			logger.Error("fiber stopped", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("addr", cfg.Server.Addr()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("fiber shutdown error", zap.Error(err))
	}

	logger.Info("server exiting")
}
