package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nmarzin/gourmand/internal/api"
	"github.com/nmarzin/gourmand/internal/auth"
	"github.com/nmarzin/gourmand/internal/config"
	"github.com/nmarzin/gourmand/internal/logger"
	"github.com/nmarzin/gourmand/internal/repository"
	"github.com/nmarzin/gourmand/internal/service"
	"github.com/nmarzin/gourmand/internal/translate"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "gourmand-api",
	})
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	ctx := context.Background()

	// Initialize databases
	mongoClient, err := repository.InitMongo(ctx, &cfg.Mongo)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(context.Background())

	db, err := repository.InitRelationalDB(&cfg.Relational)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize relational database")
	}

	// Initialize repositories
	recipeRepo := repository.NewRecipeRepository(mongoClient, cfg.Mongo.Database)
	sandwichRepo := repository.NewSandwichRepository(mongoClient, cfg.Mongo.Database)
	foodRepo := repository.NewFoodRepository(db)

	// Initialize services
	translator := translate.NewClient(&translate.Config{
		BaseURL: cfg.Translate.BaseURL,
		APIKey:  cfg.Translate.APIKey,
		Timeout: cfg.Translate.Timeout,
	})

	queryService := service.NewQueryService(
		recipeRepo,
		sandwichRepo,
		foodRepo,
		translator,
		cfg.Translate.Source,
		cfg.Translate.Target,
	)

	authManager, err := auth.NewManager(&cfg.Auth)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize auth")
	}

	// Setup router
	router := api.SetupRouter(queryService, authManager, cfg.Server.Mode)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
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
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
