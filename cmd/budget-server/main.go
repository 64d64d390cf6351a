package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"budget-server/internal/api"
	"budget-server/internal/api/handlers"
	"budget-server/internal/repository"
	"budget-server/internal/repository/memory"
	"budget-server/internal/service"
	"budget-server/pkg/auth"
	"budget-server/pkg/config"
	"budget-server/pkg/logger"
	"budget-server/pkg/postgres"

	"go.uber.org/zap"
)

// @title Budget Server API
// @version 1.0
// @description Budgets, categories and transactions shared between users.
// @BasePath /

// @securityDefinitions.basic BasicAuth

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting budget server", zap.String("storage", cfg.Storage.Backend))

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration", zap.Error(err))
	}
	if cfg.Auth.UsesDefaultSecret() {
		appLogger.Warn("JWT_SECRET_KEY is not set, session tokens are signed with the default key")
	}

	ctx := context.Background()
	var runner service.TxRunner
	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		appLogger.Warn("Using in-memory storage, data is lost on restart")
		runner = memory.New()
	default:
		if err := postgres.RunMigrations(&cfg.Database, appLogger); err != nil {
			appLogger.Fatal("Failed to migrate database", zap.Error(err))
		}
		db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		runner = service.NewPostgresTxRunner(repository.NewStore(db, appLogger))
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.SecretKey, cfg.Auth.SessionTTL)

	authService := service.NewAuthService(runner, jwtManager, appLogger)
	budgetService := service.NewBudgetService(runner, appLogger)
	categoryService := service.NewCategoryService(runner, appLogger)
	txService := service.NewTransactionService(runner, appLogger)

	app := api.SetupRouter(&cfg.Server, api.Handlers{
		Auth:         handlers.NewAuthHandler(authService, appLogger),
		Budgets:      handlers.NewBudgetHandler(budgetService, appLogger),
		Categories:   handlers.NewCategoryHandler(categoryService, appLogger),
		Transactions: handlers.NewTransactionHandler(txService, appLogger),
	}, authService, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
