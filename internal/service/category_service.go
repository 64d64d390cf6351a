package service

import (
	"context"
	"fmt"

	"budget-server/internal/dto"
	"budget-server/internal/models"

	"go.uber.org/zap"
)

type CategoryService struct {
	runner TxRunner
	logger *zap.Logger
}

func NewCategoryService(runner TxRunner, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		runner: runner,
		logger: logger,
	}
}

// List returns the categories of the caller's budgets, optionally narrowed
// to budgetIDs.
func (s *CategoryService) List(ctx context.Context, p *Principal, budgetIDs []int64) ([]dto.CategoryResponse, error) {
	if !p.valid() {
		return nil, ErrUnauthenticated
	}

	result := make([]dto.CategoryResponse, 0)
	err := s.runner.InTx(ctx, func(ctx context.Context, st Stores) error {
		ids, err := st.Permissions.ListBudgetIDs(ctx, p.UserID, budgetIDs)
		if err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		categories, err := st.Categories.ListByBudgets(ctx, ids, nil)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		for _, c := range categories {
			result = append(result, toCategoryResponse(c))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *CategoryService) Get(ctx context.Context, p *Principal, id int64) (*dto.CategoryResponse, error) {
	if !p.valid() {
		return nil, ErrUnauthenticated
	}

	var resp dto.CategoryResponse
	err := s.runner.InTx(ctx, func(ctx context.Context, st Stores) error {
		ids, err := st.Permissions.ListBudgetIDs(ctx, p.UserID, nil)
		if err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}

		c, err := st.Categories.GetByIDInBudgets(ctx, id, ids)
		if err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		resp = toCategoryResponse(c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

func (s *CategoryService) Create(ctx context.Context, p *Principal, req *dto.NewCategoryRequest) (*dto.CategoryResponse, error) {
	if !p.valid() {
		return nil, ErrUnauthenticated
	}

	var resp dto.CategoryResponse
	err := s.runner.InTx(ctx, func(ctx context.Context, st Stores) error {
		if req.BudgetID == nil {
			return ErrInvalidBudget
		}
		ok, err := st.Permissions.HasAccess(ctx, p.UserID, *req.BudgetID)
		if err != nil {
			return fmt.Errorf("check permission: %w", err)
		}
		if !ok {
			return ErrInvalidBudget
		}

		title := cleanText(req.Title)
		if title == "" {
			return invalid("Title is required")
		}

		// categories track spending unless told otherwise
		expense := true
		if req.Expense != nil {
			expense = *req.Expense
		}

		c := &models.Category{
			BudgetID:    *req.BudgetID,
			Title:       title,
			Description: cleanOptionalText(req.Description),
			Amount:      req.Amount,
			Expense:     expense,
		}
		if err := st.Categories.Create(ctx, c); err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		resp = toCategoryResponse(c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

func toCategoryResponse(c *models.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		BudgetID:    c.BudgetID,
		Title:       c.Title,
		Description: c.Description,
		Amount:      c.Amount,
		Expense:     c.Expense,
		Archived:    c.Archived,
	}
}
