package main

import (
	"fmt"
	"os"

	"renovo/internal/config"
	"renovo/internal/database"
	"renovo/internal/logger"
	"renovo/internal/server"
	"renovo/internal/validator"

	_ "renovo/internal/docs" // Import swagger docs
)

// @title           Renovo API
// @version         1.0
// @description     Renovo tracks home renovation projects: budget and expenses, phased schedule and per-phase task checklists.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.InitWithLevel(appConfig.Env, appConfig.LogLevel)
	defer logger.Sync()
	log := logger.Get()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig, appConfig.Now)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	router := server.NewRouter(dbManager.DB(), server.Options{
		Now:                     appConfig.Now,
		DefaultWarningThreshold: appConfig.DefaultWarningThreshold,
		Swagger:                 appConfig.Env != "production" || os.Getenv("SWAGGER") == "true",
		RequestLogging:          true,
	})

	log.Infow("Starting Renovo server",
		"port", appConfig.Port,
		"env", appConfig.Env,
		"db_driver", dbConfig.Driver,
		"timezone", appConfig.Location.String(),
	)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
