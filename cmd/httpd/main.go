// Command httpd runs the content resolution HTTP service.
package main

import (
	"context"
	"log"
	"os"

	"github.com/shopwire/content-engine/internal/bootstrap"
	"github.com/shopwire/content-engine/internal/logging"
)

func main() {
	if err := run(); err != nil {
		log.Printf("fatal: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()

	components, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := components.DB.Close(); closeErr != nil {
			logger.Warn("closing database", logging.Error(closeErr))
		}
	}()

	logger.Info("Content engine ready",
		logging.String("version", cfg.Service.Version),
		logging.Int("port", cfg.Service.Port),
	)

	return components.Server.RunWithGracefulShutdown(ctx)
}
