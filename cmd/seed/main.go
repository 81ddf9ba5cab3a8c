package main

import (
	"context"
	"flag"

	"github.com/kenlim/foodvision/internal/config"
	"github.com/kenlim/foodvision/internal/logger"
	"github.com/kenlim/foodvision/internal/repository"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "foodvision-seed",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	reseed := flag.Bool("reseed", false, "Insert missing reference foods even if the table is non-empty")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	foodRepo := repository.NewFoodRepository(db)
	ctx := context.Background()

	count, err := foodRepo.Count(ctx)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to count reference foods")
	}
	if count > 0 && !*reseed {
		appLogger.WithField("existing", count).Info("Reference table already seeded, nothing to do")
		return
	}

	inserted, err := foodRepo.Seed(ctx, repository.SeedFoods())
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to seed reference foods")
	}

	total, err := foodRepo.Count(ctx)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to count reference foods")
	}

	appLogger.WithFields(logger.Fields{
		"inserted": inserted,
		"total":    total,
	}).Info("Seeding completed")
}
