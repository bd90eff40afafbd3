package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"finspace/internal/config"
	"finspace/internal/database"
	"finspace/internal/handlers"
	"finspace/internal/logger"
	"finspace/internal/middleware"
	"finspace/internal/services"
	"finspace/internal/validator"

	_ "finspace/internal/docs" // Import swagger docs
)

// @title           Finspace API
// @version         1.0
// @description     Finspace is a personal and shared finance application for managing spaces, monthly budgets, and framework-based budget allocations.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db)
	spaceService := services.NewSpaceService(db)
	budgetService := services.NewBudgetService(db)
	currencyService := services.NewCurrencyService(db)
	onboardingService := services.NewOnboardingService(db, userService)
	dashboardService := services.NewDashboardService(db, spaceService)

	// Seed currency reference data
	if err := currencyService.SeedDefaults(); err != nil {
		return fmt.Errorf("failed to seed currencies: %w", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	spaceHandler := handlers.NewSpaceHandler(spaceService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService, auditService)
	currencyHandler := handlers.NewCurrencyHandler(currencyService, auditService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	v1.GET("/currencies", currencyHandler.GetCurrencies)
	v1.GET("/currencies/:code", currencyHandler.GetCurrency)
	v1.GET("/frameworks", budgetHandler.GetFrameworks)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile and session
	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/auth/logout", authHandler.Logout)

	// Onboarding routes
	onboarding := protected.Group("/onboarding")
	onboarding.GET("/status", onboardingHandler.GetStatus)
	onboarding.POST("/complete", onboardingHandler.Complete)

	// Space routes
	spaces := protected.Group("/spaces")
	spaces.POST("", spaceHandler.CreateSpace)
	spaces.GET("", spaceHandler.GetSpaces)
	spaces.POST("/join", spaceHandler.JoinSpace)
	spaces.GET("/:id", spaceHandler.GetSpace)
	spaces.PUT("/:id", spaceHandler.UpdateSpace)
	spaces.DELETE("/:id", spaceHandler.DeleteSpace)
	spaces.POST("/:id/leave", spaceHandler.LeaveSpace)
	spaces.GET("/:id/members", spaceHandler.GetMembers)
	spaces.POST("/:id/invite-code", spaceHandler.RegenerateInviteCode)
	spaces.POST("/:id/budgets", budgetHandler.CreateBudget)
	spaces.GET("/:id/budgets", budgetHandler.GetBudgets)
	spaces.GET("/:id/dashboard", dashboardHandler.GetSummary)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.POST("/:id/items", budgetHandler.CreateItem)
	budgets.GET("/:id/items", budgetHandler.GetItems)
	budgets.POST("/:id/parent-categories", budgetHandler.CreateParentCategory)
	budgets.GET("/:id/parent-categories", budgetHandler.GetParentCategories)
	budgets.GET("/:id/stats", budgetHandler.GetBudgetStats)
	budgets.POST("/:id/recalculate", budgetHandler.RecalculateTotals)
	budgets.POST("/:id/replicate", budgetHandler.ReplicateBudget)

	// Budget item routes
	items := protected.Group("/items")
	items.PUT("/:id", budgetHandler.UpdateItem)
	items.DELETE("/:id", budgetHandler.DeleteItem)
	items.POST("/:id/children", budgetHandler.AddChild)
	items.GET("/:id/children", budgetHandler.GetChildren)

	// Currency management routes
	currencies := protected.Group("/currencies")
	currencies.POST("", currencyHandler.CreateCurrency)
	currencies.PUT("/:code", currencyHandler.UpdateCurrency)
	currencies.DELETE("/:code", currencyHandler.DeleteCurrency)

	log.Infof("Starting Finspace backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
