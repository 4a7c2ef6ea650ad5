package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/aggregator"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/api"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/cache"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/config"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/handler"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/logger"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/metrics"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/scorer"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/storage"

	_ "github.com/lib/pq"
)

// Database connection timeout.
const dbPingTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	// Connect to database
	db, err := connectDatabase(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	// Run server
	return runServer(cfg, log, db)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	configPath := config.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// connectDatabase opens and verifies a database connection.
func connectDatabase(cfg *config.Config, log logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connected",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	return db, nil
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger, db *sql.DB) int {
	store := storage.NewStore(db, log)
	model := scorer.NewRuleScorer()
	agg := aggregator.New(store, store, model, log)

	statsCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Error("Failed to create stats cache", logger.Error(err))
		return 1
	}
	defer func() { _ = statsCache.Close() }()

	m := metrics.New()

	handlers := api.Handlers{
		Click: handler.NewClickHandler(agg, m, log),
		Ads:   handler.NewAdHandler(store, log),
		Report: handler.NewReportHandler(
			store, statsCache, cfg.Cache.StatsTTL,
			cfg.Service.SessionQueryLimit, m, log,
		),
		Model:  handler.NewModelHandler(model),
		Health: handler.NewHealthHandler(cfg.Service.Version, store),
	}

	server := api.NewServer(cfg, log, func(router *gin.Engine, done <-chan struct{}) {
		api.SetupRoutes(router, handlers, m, cfg, done)
	})

	log.Info("Fraud tracker starting",
		logger.Int("port", cfg.Service.Port),
		logger.String("model", model.Name()),
		logger.String("cache_backend", cfg.Cache.Backend),
	)

	if err := server.Run(context.Background()); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Fraud tracker exited cleanly")
	return 0
}
