package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"

	"compliancedocs/docs"
	"compliancedocs/internal/auth"
	"compliancedocs/internal/cache"
	"compliancedocs/internal/config"
	"compliancedocs/internal/database"
	"compliancedocs/internal/database/migration"
	"compliancedocs/internal/events"
	handlers "compliancedocs/internal/http/handler"
	"compliancedocs/internal/http/middleware"
	"compliancedocs/internal/logger"
	"compliancedocs/internal/metrics"
	"compliancedocs/internal/otel"
	"compliancedocs/internal/repository/postgres"
	"compliancedocs/internal/service"
	"compliancedocs/internal/storage"
)

// multipartOverhead leaves room for form fields and boundaries on top of the file itself.
const multipartOverhead = 1 << 20

// @title Compliance Documents API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.Init(cfg.Log)

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		fatal(log, "tracing_init_failed", err)
	}

	if cfg.Auth.SigningKey == "" {
		fatal(log, "config_invalid", errors.New("JWT_SIGNING_KEY must be set"))
	}

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		fatal(log, "db_connect_failed", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		fatal(log, "db_migration_failed", err)
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		fatal(log, "storage_init_failed", err)
	}

	// Snapshots live in Redis when configured so every replica can serve the same
	// last-known-good data; otherwise they are kept per process.
	var snap cache.Snapshot = cache.NewMemory()
	rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("redis_unavailable", "error", err)
	} else if rdb != nil {
		defer rdb.Close()
		snap = cache.NewRedisSnapshot(rdb, cfg.Redis.SnapshotTTL)
	}

	publisher := events.New(cfg.Kafka)
	defer publisher.Close()

	m, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		fatal(log, "metrics_init_failed", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		fatal(log, "metrics_init_failed", err)
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithPresignTTL(cfg.Compliance.PresignTTL),
		service.WithMaxUploadBytes(int64(cfg.Compliance.MaxUploadBytes)),
	}

	docRepo := postgres.NewDocumentPostgres(db)
	refRepo := postgres.NewReferencePostgres(db)

	catalogSvc := service.NewCatalogService(postgres.NewDocumentTypePostgres(db), snap, opts...)
	if err := catalogSvc.Seed(ctx); err != nil {
		fatal(log, "catalog_seed_failed", err)
	}
	docSvc := service.NewDocumentService(docRepo, refRepo, catalogSvc, objStore, snap, publisher, opts...)
	notifSvc := service.NewNotificationService(docSvc, docRepo, catalogSvc, postgres.NewNotificationReadPostgres(db), opts...)
	refSvc := service.NewReferenceService(refRepo, opts...)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.Compliance.MaxUploadBytes + multipartOverhead,
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:            db,
		Storage:       objStore,
		Tokens:        auth.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.Issuer),
		Metrics:       prometheus.DefaultGatherer,
		Catalog:       catalogSvc,
		Documents:     docSvc,
		Notifications: notifSvc,
		References:    refSvc,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server_start", "addr", addr)
		serveErr <- app.Listen(addr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			fatal(log, "server_failed", err)
		}
	case <-ctx.Done():
	}

	log.Info("server_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("server_shutdown_failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing_shutdown_failed", "error", err)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
