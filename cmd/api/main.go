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

	"github.com/kenlim/foodvision/internal/api"
	"github.com/kenlim/foodvision/internal/config"
	"github.com/kenlim/foodvision/internal/logger"
	"github.com/kenlim/foodvision/internal/repository"
	"github.com/kenlim/foodvision/internal/service"
	"github.com/kenlim/foodvision/internal/storage"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize repositories
	foodRepo := repository.NewFoodRepository(db)
	mealRepo := repository.NewMealRepository(db)

	// Seed the nutrition reference table on first boot
	ctx := context.Background()
	count, err := foodRepo.Count(ctx)
	if err != nil {
		appLogger.Fatalf("Failed to count reference foods: %v", err)
	}
	if count == 0 {
		inserted, err := foodRepo.Seed(ctx, repository.SeedFoods())
		if err != nil {
			appLogger.Fatalf("Failed to seed reference foods: %v", err)
		}
		appLogger.Infof("Seeded nutrition reference table with %d foods", inserted)
	}

	foods, err := foodRepo.List(ctx)
	if err != nil {
		appLogger.Fatalf("Failed to load reference foods: %v", err)
	}
	table, err := service.NewReferenceTable(foods, cfg.Nutrition.SimilarityCutoff)
	if err != nil {
		appLogger.Fatalf("Failed to build reference table: %v", err)
	}

	// Select the analysis engine
	var detector service.Detector
	switch cfg.Detector.Provider {
	case "remote":
		remote, err := service.NewRemoteDetector(&cfg.Detector)
		if err != nil {
			appLogger.Fatalf("Failed to initialize remote detector: %v", err)
		}
		detector = remote
		appLogger.Infof("Using remote detector at %s", cfg.Detector.Endpoint)
	default:
		detector = service.NewDeterministicDetector(cfg.Analysis, appLogger)
	}

	// Optional photo archive (supports MinIO, R2, S3)
	var archiver *service.PhotoArchiver
	if cfg.Archive.Enabled {
		objectStorage, err := storage.NewStorage(&storage.S3Config{
			Type:      storage.StorageType(cfg.Archive.Type),
			Endpoint:  cfg.Archive.Endpoint,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			UseSSL:    cfg.Archive.UseSSL,
			Bucket:    cfg.Archive.Bucket,
			Region:    cfg.Archive.Region,
		})
		if err != nil {
			appLogger.Fatalf("Failed to initialize photo archive storage: %v", err)
		}
		if err := objectStorage.EnsureBucket(ctx); err != nil {
			appLogger.Fatalf("Failed to ensure archive bucket: %v", err)
		}
		archiver = service.NewPhotoArchiver(objectStorage, cfg.Archive.ThumbnailWidth, appLogger)
		appLogger.Infof("Photo archive enabled (bucket %s)", cfg.Archive.Bucket)
	}

	// Initialize services
	analyzeService := service.NewAnalyzeService(detector, table, archiver, appLogger)
	mealService := service.NewMealService(mealRepo, table, appLogger)

	// Setup router
	router := api.SetupRouter(analyzeService, mealService, table, cfg, appLogger)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.Infof("Starting API server on port %d (mode %s)", cfg.Server.Port, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exited")
}
