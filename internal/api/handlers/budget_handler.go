package handlers

import (
	"budget-server/internal/dto"
	"budget-server/internal/service"
	"budget-server/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type BudgetHandler struct {
	budgetService *service.BudgetService
	logger        *zap.Logger
}

func NewBudgetHandler(budgetService *service.BudgetService, logger *zap.Logger) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		logger:        logger,
	}
}

// ListBudgets godoc
// @Summary List budgets shared with the caller
// @Tags budgets
// @Produce json
// @Security BasicAuth
// @Success 200 {array} dto.BudgetResponse
// @Router /budgets [get]
func (h *BudgetHandler) ListBudgets(c *fiber.Ctx) error {
	budgets, err := h.budgetService.List(c.Context(), middleware.Principal(c))
	if err != nil {
		return respondError(c, h.logger, err, "List budgets")
	}
	return c.JSON(budgets)
}

// GetBudget godoc
// @Summary Get a budget
// @Tags budgets
// @Produce json
// @Param id path int true "Budget ID"
// @Security BasicAuth
// @Success 200 {object} dto.BudgetResponse
// @Failure 404
// @Router /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}

	budget, err := h.budgetService.Get(c.Context(), middleware.Principal(c), id)
	if err != nil {
		return respondError(c, h.logger, err, "Get budget")
	}
	return c.JSON(budget)
}

// NewBudget godoc
// @Summary Create a budget owned by the caller
// @Tags budgets
// @Accept json
// @Produce json
// @Param request body dto.NewBudgetRequest true "New budget"
// @Security BasicAuth
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /budgets/new [post]
func (h *BudgetHandler) NewBudget(c *fiber.Ctx) error {
	var req dto.NewBudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	budget, err := h.budgetService.Create(c.Context(), middleware.Principal(c), &req)
	if err != nil {
		return respondError(c, h.logger, err, "Create budget")
	}
	return c.JSON(budget)
}
