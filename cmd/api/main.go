package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"spendcycle/internal/config"
	"spendcycle/internal/database"
	"spendcycle/internal/handlers"
	"spendcycle/internal/logger"
	"spendcycle/internal/middleware"
	"spendcycle/internal/scheduler"
	"spendcycle/internal/services"
	"spendcycle/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "spendcycle/internal/docs" // Import swagger docs
)

// @title           Spendcycle API
// @version         1.0
// @description     Spendcycle tracks personal spending against a recurring budget cycle: periods are generated, classified, continued, and reconciled by an hourly sweep.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

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

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	settingsService := services.NewSettingsService(db, appConfig.DefaultTimezone)
	periodService := services.NewPeriodService(db, settingsService)
	budgetService := services.NewBudgetService(db, settingsService, periodService)
	expenseService := services.NewExpenseService(db, settingsService, periodService, budgetService)
	sweepService := services.NewSweepService(db, settingsService, budgetService, periodService, expenseService)

	// Background sweep
	sched := scheduler.New(sweepService, appConfig.SweepInterval)
	sched.Start()
	defer sched.Stop()

	// Initialize handlers
	budgetHandler := handlers.NewBudgetHandler(budgetService, periodService)
	periodHandler := handlers.NewPeriodHandler(periodService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	sweepHandler := handlers.NewSweepHandler(sched, sweepService, settingsService)

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

	// Budget routes
	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.POST("/:id/activate", budgetHandler.ActivateBudget)
	budgets.POST("/:id/schedule", budgetHandler.ScheduleBudget)
	budgets.POST("/:id/vacation", budgetHandler.SetVacationMode)
	budgets.GET("/:id/periods", budgetHandler.GetBudgetPeriods)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	// Period routes
	periods := v1.Group("/periods")
	periods.GET("", periodHandler.GetPeriods)
	periods.GET("/current", periodHandler.GetCurrentPeriod)

	// Expense routes
	expenses := v1.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Settings routes
	settings := v1.Group("/settings")
	settings.GET("/timezone", settingsHandler.GetTimezone)
	settings.PUT("/timezone", settingsHandler.SetTimezone)

	// Sweep routes
	sweep := v1.Group("/sweep")
	sweep.POST("/run", sweepHandler.RunSweep)
	sweep.POST("/reclassify", sweepHandler.Reclassify)
	sweep.POST("/continue", sweepHandler.Continue)
	sweep.POST("/reconcile", sweepHandler.Reconcile)

	// Serve until interrupted so the sweep scheduler stops cleanly.
	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Spendcycle backend server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		errCh <- router.Run(":" + appConfig.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Infof("Received signal %s, shutting down", sig)
		return nil
	}
}
