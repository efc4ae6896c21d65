package main

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting catalog seeder")

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	fileLoader := catalog.NewFileLoader(logger)
	var loader catalog.Loader = fileLoader

	if cfg.Seed.S3Enabled {
		s3Loader, err := catalog.NewS3Loader(ctx, cfg.Seed.S3Bucket, cfg.Seed.S3Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			loader = catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.Seed.S3Key, true, logger)
		}
	}

	seedCatalog, err := loader.Load(ctx, cfg.Seed.FilePath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	seeder := catalog.NewSeeder(pool, logger)
	if err := seeder.Seed(ctx, seedCatalog); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	logger.Info().Msg("catalog seeding completed")

	return nil
}
