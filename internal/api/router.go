package api

import (
	"budget-server/docs"
	"budget-server/internal/api/handlers"
	"budget-server/internal/dto"
	"budget-server/pkg/config"
	"budget-server/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Budgets      *handlers.BudgetHandler
	Categories   *handlers.CategoryHandler
	Transactions *handlers.TransactionHandler
}

func SetupRouter(
	cfg *config.ServerConfig,
	h Handlers,
	authenticator middleware.Authenticator,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "budget-server",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			} else {
				appLogger.Error("Unhandled error", zap.Error(err), zap.String("path", c.Path()))
			}
			return c.Status(code).JSON(dto.ErrorResponse{
				Message: err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))

	_ = docs.SwaggerInfo // registers the spec with swag
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public user routes
	app.Post("/users/new", h.Auth.Register)
	app.Post("/users/login", h.Auth.Login)

	requireAuth := middleware.AuthMiddleware(authenticator, appLogger)
	app.Get("/users/me", requireAuth, h.Auth.Me)

	budgets := app.Group("/budgets", requireAuth)
	budgets.Get("", h.Budgets.ListBudgets)
	budgets.Post("/new", h.Budgets.NewBudget)
	budgets.Get("/:id", h.Budgets.GetBudget)

	categories := app.Group("/categories", requireAuth)
	categories.Get("", h.Categories.ListCategories)
	categories.Post("/new", h.Categories.NewCategory)
	categories.Get("/:id", h.Categories.GetCategory)

	transactions := app.Group("/transactions", requireAuth)
	transactions.Get("", h.Transactions.ListTransactions)
	transactions.Post("/new", h.Transactions.NewTransaction)
	transactions.Get("/:id", h.Transactions.GetTransaction)
	transactions.Put("/:id", h.Transactions.UpdateTransaction)
	transactions.Delete("/:id", h.Transactions.DeleteTransaction)

	return app
}
