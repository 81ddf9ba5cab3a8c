package api

import (
	"github.com/gin-gonic/gin"
	"github.com/kenlim/foodvision/internal/api/handler"
	"github.com/kenlim/foodvision/internal/api/middleware"
	"github.com/kenlim/foodvision/internal/config"
	"github.com/kenlim/foodvision/internal/logger"
	"github.com/kenlim/foodvision/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	analyzeService *service.AnalyzeService,
	mealService *service.MealService,
	table *service.ReferenceTable,
	cfg *config.Config,
	log *logger.Logger,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	mealHandler := handler.NewMealHandler(analyzeService, mealService, cfg.Analysis, cfg.Server)
	foodHandler := handler.NewFoodHandler(table)

	// Health check
	r.GET("/health", healthHandler.Health)

	// Meals
	r.POST("/meals/analyze", mealHandler.Analyze)
	r.POST("/meals", mealHandler.Save)
	r.GET("/meals/today", mealHandler.Today)
	r.GET("/meals/:id", mealHandler.Get)

	// Nutrition reference
	r.GET("/foods", foodHandler.List)

	return r
}
