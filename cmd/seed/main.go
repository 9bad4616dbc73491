// cmd/seed loads the bundled wildlife catalog into the configured store.
// It is a no-op when the store already holds ecosystems.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"wildlife-catalog-backend/internal/config"
	"wildlife-catalog-backend/internal/seed"
	"wildlife-catalog-backend/pkg/container"
	"wildlife-catalog-backend/pkg/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "decode and validate the catalog without writing")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	// run owns every open handle; exit only after it has returned
	if err := run(cfg, *dryRun); err != nil {
		zlog.Error().Err(err).Msg("Seeding failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, dryRun bool) error {
	if dryRun {
		ecosystems, species, err := seed.Catalog(time.Now())
		if err != nil {
			return fmt.Errorf("catalog is invalid: %w", err)
		}
		zlog.Info().
			Int("ecosystems", len(ecosystems)).
			Int("species", len(species)).
			Msg("Catalog OK")
		return nil
	}

	// The container would seed on its own; run it explicitly to report the result
	cfg.Store.Seed = false

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := container.NewContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize container: %w", err)
	}
	defer c.Cleanup()

	result, err := seed.Run(ctx, c.EcosystemRepo, c.SpeciesRepo, time.Now())
	if err != nil {
		return err
	}

	if result.Skipped {
		zlog.Info().Str("store", cfg.Store.Driver).Msg("Store already populated, nothing to do")
		return nil
	}
	zlog.Info().
		Str("store", cfg.Store.Driver).
		Int("ecosystems", result.Ecosystems).
		Int("species", result.Species).
		Msg("Catalog seeded")
	return nil
}
