package handlers

import (
	"budget-server/internal/dto"
	"budget-server/internal/service"
	"budget-server/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	txService *service.TransactionService
	logger    *zap.Logger
}

func NewTransactionHandler(txService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		logger:    logger,
	}
}

// ListTransactions godoc
// @Summary List transactions
// @Description Transactions of the caller's budgets inside a date window. Missing or invalid dates default to the current month.
// @Tags transactions
// @Produce json
// @Param categoryId query []int false "Category IDs" collectionFormat(multi)
// @Param budgetId query []int false "Budget IDs" collectionFormat(multi)
// @Param from query string false "Exclusive lower bound (RFC 3339)"
// @Param to query string false "Exclusive upper bound (RFC 3339)"
// @Param count query int false "Page size" default(1000)
// @Param page query int false "Zero-based page" default(0)
// @Param sortBy query string false "date, amount, title, id, expense or createdAt" default(date)
// @Param sortOrder query string false "ASC or DESC" default(DESC)
// @Security BasicAuth
// @Success 200 {array} dto.TransactionResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	query := dto.ListTransactionsQuery{
		CategoryIDs: queryIDs(c, "categoryId"),
		BudgetIDs:   queryIDs(c, "budgetId"),
		From:        c.Query("from"),
		To:          c.Query("to"),
		Count:       c.QueryInt("count", 0),
		Page:        c.QueryInt("page", 0),
		SortBy:      c.Query("sortBy"),
		SortOrder:   c.Query("sortOrder"),
	}

	transactions, err := h.txService.List(c.Context(), middleware.Principal(c), query)
	if err != nil {
		return respondError(c, h.logger, err, "List transactions")
	}

	return c.JSON(transactions)
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Security BasicAuth
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}

	tx, err := h.txService.Get(c.Context(), middleware.Principal(c), id)
	if err != nil {
		return respondError(c, h.logger, err, "Get transaction")
	}

	return c.JSON(tx)
}

// NewTransaction godoc
// @Summary Create a transaction
// @Description The category is only attached when it belongs to the target budget.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.NewTransactionRequest true "New transaction"
// @Security BasicAuth
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /transactions/new [post]
func (h *TransactionHandler) NewTransaction(c *fiber.Ctx) error {
	var req dto.NewTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	tx, err := h.txService.Create(c.Context(), middleware.Principal(c), &req)
	if err != nil {
		return respondError(c, h.logger, err, "Create transaction")
	}

	return c.JSON(tx)
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Only the supplied fields change. Moving to another budget clears the category.
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param request body dto.UpdateTransactionRequest true "Fields to change"
// @Security BasicAuth
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var req dto.UpdateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	tx, err := h.txService.Update(c.Context(), middleware.Principal(c), id, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Update transaction")
	}

	return c.JSON(tx)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Param id path int true "Transaction ID"
// @Security BasicAuth
// @Success 200
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}

	if err := h.txService.Delete(c.Context(), middleware.Principal(c), id); err != nil {
		return respondError(c, h.logger, err, "Delete transaction")
	}

	c.Status(fiber.StatusOK)
	return nil
}
