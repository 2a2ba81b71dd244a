package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clinicapi/internal/config"
	"clinicapi/internal/database"
	"clinicapi/internal/database/migration"
	handlers "clinicapi/internal/http/handler"
	"clinicapi/internal/http/middleware"
	"clinicapi/internal/otel"
	"clinicapi/internal/repository/postgres"
	"clinicapi/internal/service"
	"clinicapi/internal/storage"
)

func logJSON(loc *time.Location, level, msg string, extra map[string]any) {
	entry := map[string]any{
		"ts":    time.Now().In(loc).Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}
	for k, v := range extra {
		entry[k] = v
	}
	if b, err := json.Marshal(entry); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}

func main() {
	ctx := context.Background()
	loc := time.Local

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Bring the schema up to date before serving traffic
	if err := migration.Apply(ctx, db); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Initialize repositories and services
	patientRepo := postgres.NewPatientPostgres(db)
	recordRepo := postgres.NewRecordPostgres(db)
	patientSvc := service.NewPatientService(patientRepo, recordRepo, objStore)
	recordSvc := service.NewRecordService(recordRepo, patientRepo, objStore)
	authSvc := service.NewAuthService(cfg.Auth)

	// Reconcile object storage with the database so half-finished uploads
	// never accumulate
	if removed, err := recordSvc.SweepOrphans(ctx); err != nil {
		logJSON(loc, "error", "orphan_sweep_failed", map[string]any{"error": err.Error()})
	} else if removed > 0 {
		logJSON(loc, "info", "orphan_sweep_done", map[string]any{"removed": removed})
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(loc))
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, patientSvc, recordSvc, authSvc)

	addr := ":" + cfg.Port
	logJSON(loc, "info", "server_starting", map[string]any{"addr": addr})

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
