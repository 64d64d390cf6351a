package handlers

import (
	"budget-server/internal/dto"
	"budget-server/internal/service"
	"budget-server/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
	logger          *zap.Logger
}

func NewCategoryHandler(categoryService *service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// ListCategories godoc
// @Summary List categories of the caller's budgets
// @Tags categories
// @Produce json
// @Param budgetId query []int false "Budget IDs" collectionFormat(multi)
// @Security BasicAuth
// @Success 200 {array} dto.CategoryResponse
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categoryService.List(c.Context(), middleware.Principal(c), queryIDs(c, "budgetId"))
	if err != nil {
		return respondError(c, h.logger, err, "List categories")
	}
	return c.JSON(categories)
}

// GetCategory godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Security BasicAuth
// @Success 200 {object} dto.CategoryResponse
// @Failure 404
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}

	category, err := h.categoryService.Get(c.Context(), middleware.Principal(c), id)
	if err != nil {
		return respondError(c, h.logger, err, "Get category")
	}
	return c.JSON(category)
}

// NewCategory godoc
// @Summary Create a category in one of the caller's budgets
// @Tags categories
// @Accept json
// @Produce json
// @Param request body dto.NewCategoryRequest true "New category"
// @Security BasicAuth
// @Success 200 {object} dto.CategoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /categories/new [post]
func (h *CategoryHandler) NewCategory(c *fiber.Ctx) error {
	var req dto.NewCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	category, err := h.categoryService.Create(c.Context(), middleware.Principal(c), &req)
	if err != nil {
		return respondError(c, h.logger, err, "Create category")
	}
	return c.JSON(category)
}
