// Package bootstrap wires the content engine's components together at
// startup: config, logger, database, capability snapshot, resolution
// pipeline and HTTP server.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shopwire/content-engine/internal/api"
	"github.com/shopwire/content-engine/internal/config"
	"github.com/shopwire/content-engine/internal/database"
	"github.com/shopwire/content-engine/internal/imageproxy"
	"github.com/shopwire/content-engine/internal/logging"
	"github.com/shopwire/content-engine/internal/metrics"
	"github.com/shopwire/content-engine/internal/resolver"
	"github.com/shopwire/content-engine/internal/taxonomy"
)

// LoadConfig loads configuration from CONFIG_PATH or ./config.yml. Missing
// files fall back to defaults plus environment.
func LoadConfig() (*config.Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yml"
	}
	return config.Load(path)
}

// CreateLogger creates the service logger from configuration.
func CreateLogger(cfg *config.Config) (logging.Logger, error) {
	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development || cfg.Service.Debug,
		OutputPaths: cfg.Logging.OutputPaths,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logging.String("service", cfg.Service.Name)), nil
}

// Components holds everything the HTTP entrypoint needs.
type Components struct {
	DB      *sqlx.DB
	Engine  *resolver.Engine
	Metrics *metrics.Metrics
	Server  *api.Server
}

// Build opens the database, loads the capability snapshot and assembles the
// full resolution pipeline and HTTP server.
func Build(ctx context.Context, cfg *config.Config, log logging.Logger) (*Components, error) {
	log.Info("Connecting to content database",
		logging.String("path", cfg.Database.Path),
	)

	db, err := database.NewSQLiteConnection(database.Config{
		Path:        cfg.Database.Path,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	snap := database.LoadSnapshot(ctx, db, log)

	m := metrics.New(prometheus.DefaultRegisterer)

	retry := database.RetryConfig{
		MaxAttempts:  cfg.Database.RetryMaxAttempts,
		InitialDelay: cfg.Database.RetryInitialDelay,
		OnRetry:      m.RetriesTotal.Inc,
	}
	store := database.NewContentStore(db, retry, log)
	catRepo := database.NewCategoryRepository(db, snap.Categories)

	hier := taxonomy.NewHierarchyResolver(catRepo, log)
	planner := resolver.NewPlanner(snap)
	executor := resolver.NewExecutor(store, log, m)
	rewriter := imageproxy.NewRewriter(cfg.Images)
	normalizer := resolver.NewNormalizer(rewriter, log)
	engine := resolver.NewEngine(planner, hier, executor, normalizer, store, log, cfg.Resolver.FetchLimit)

	handler := api.NewHandler(engine, db, log, cfg.Service.Name, cfg.Service.Version)
	server := api.NewServer(api.ServerConfig{
		Port:            cfg.Service.Port,
		Debug:           cfg.Service.Debug,
		ShutdownTimeout: cfg.Service.ShutdownTimeout,
		CORS:            api.CORSConfig{Enabled: true},
		ServiceName:     cfg.Service.Name,
		ServiceVersion:  cfg.Service.Version,
	}, log, func(router *gin.Engine) {
		router.Use(m.Middleware())
		api.SetupRoutes(router, handler, prometheus.DefaultGatherer)
	})

	return &Components{DB: db, Engine: engine, Metrics: m, Server: server}, nil
}
