package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"budget-server/internal/dto"
	"budget-server/internal/repository"
	"budget-server/internal/service"
	"budget-server/pkg/config"
	"budget-server/pkg/logger"
	"budget-server/pkg/postgres"

	"go.uber.org/zap"
)

// SeedData describes the demo account written by the seeder.
type SeedData struct {
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Budgets  []SeedBudget `json:"budgets"`
}

type SeedBudget struct {
	Name         string            `json:"name"`
	Categories   []SeedCategory    `json:"categories"`
	Transactions []SeedTransaction `json:"transactions"`
}

type SeedCategory struct {
	Title   string `json:"title"`
	Amount  int64  `json:"amount"`
	Expense bool   `json:"expense"`
}

// SeedTransaction refers to its category by title. DaysAgo is relative to
// the time the seeder runs so the data shows up in the default month view.
type SeedTransaction struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
	Expense  bool   `json:"expense"`
	DaysAgo  int    `json:"daysAgo"`
}

func main() {
	dataFile := flag.String("data", "", "path to a JSON seed file; built-in demo data when empty")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	data := defaultSeedData()
	if *dataFile != "" {
		if data, err = loadSeedData(*dataFile); err != nil {
			appLogger.Fatal("Failed to read seed data", zap.String("file", *dataFile), zap.Error(err))
		}
	}

	if err := postgres.RunMigrations(&cfg.Database, appLogger); err != nil {
		appLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	runner := service.NewPostgresTxRunner(repository.NewStore(db, appLogger))

	appLogger.Info("Starting database seeding...")
	if err := seed(ctx, runner, data, appLogger); err != nil {
		appLogger.Fatal("Failed to seed database", zap.Error(err))
	}
	appLogger.Info("Database seeding completed successfully!")
}

func seed(ctx context.Context, runner service.TxRunner, data *SeedData, logger *zap.Logger) error {
	users := service.NewAuthService(runner, nil, logger)
	budgets := service.NewBudgetService(runner, logger)
	categories := service.NewCategoryService(runner, logger)
	transactions := service.NewTransactionService(runner, logger)

	_, err := users.Register(ctx, &dto.RegisterRequest{
		Username: data.Username,
		Email:    data.Email,
		Password: data.Password,
	})
	if err != nil && !errors.Is(err, service.ErrUserExists) {
		return fmt.Errorf("register %s: %w", data.Username, err)
	}

	principal, err := users.Authenticate(ctx, data.Username, data.Password)
	if err != nil {
		return fmt.Errorf("authenticate %s: %w", data.Username, err)
	}

	existing, err := budgets.List(ctx, principal)
	if err != nil {
		return fmt.Errorf("list budgets: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Demo user already has budgets, skipping",
			zap.String("username", data.Username),
			zap.Int("budgets", len(existing)))
		return nil
	}

	now := time.Now().UTC()
	for _, b := range data.Budgets {
		budget, err := budgets.Create(ctx, principal, &dto.NewBudgetRequest{Name: b.Name})
		if err != nil {
			return fmt.Errorf("create budget %q: %w", b.Name, err)
		}

		categoryIDs := make(map[string]int64, len(b.Categories))
		for _, c := range b.Categories {
			expense := c.Expense
			category, err := categories.Create(ctx, principal, &dto.NewCategoryRequest{
				Title:    c.Title,
				Amount:   c.Amount,
				BudgetID: &budget.ID,
				Expense:  &expense,
			})
			if err != nil {
				return fmt.Errorf("create category %q: %w", c.Title, err)
			}
			categoryIDs[c.Title] = category.ID
		}

		for _, t := range b.Transactions {
			req := &dto.NewTransactionRequest{
				BudgetID: &budget.ID,
				Title:    t.Title,
				Date:     now.AddDate(0, 0, -t.DaysAgo).Format(time.RFC3339),
				Amount:   t.Amount,
				Expense:  t.Expense,
			}
			if id, ok := categoryIDs[t.Category]; ok {
				req.CategoryID = &id
			}
			if _, err := transactions.Create(ctx, principal, req); err != nil {
				return fmt.Errorf("create transaction %q: %w", t.Title, err)
			}
		}

		logger.Info("Seeded budget",
			zap.String("budget", b.Name),
			zap.Int("categories", len(b.Categories)),
			zap.Int("transactions", len(b.Transactions)))
	}

	return nil
}

func loadSeedData(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if data.Username == "" || data.Password == "" {
		return nil, fmt.Errorf("%s: username and password are required", path)
	}
	return &data, nil
}

func defaultSeedData() *SeedData {
	return &SeedData{
		Username: "demo",
		Email:    "demo@example.com",
		Password: "demo",
		Budgets: []SeedBudget{
			{
				Name: "Household",
				Categories: []SeedCategory{
					{Title: "Groceries", Amount: 40000, Expense: true},
					{Title: "Utilities", Amount: 15000, Expense: true},
					{Title: "Salary", Amount: 300000, Expense: false},
				},
				Transactions: []SeedTransaction{
					{Title: "Supermarket", Category: "Groceries", Amount: 5230, Expense: true, DaysAgo: 0},
					{Title: "Bakery", Category: "Groceries", Amount: 780, Expense: true, DaysAgo: 1},
					{Title: "Electricity", Category: "Utilities", Amount: 6400, Expense: true, DaysAgo: 2},
					{Title: "Paycheck", Category: "Salary", Amount: 300000, Expense: false, DaysAgo: 3},
					{Title: "Flea market", Amount: 1500, Expense: true, DaysAgo: 1},
				},
			},
		},
	}
}
