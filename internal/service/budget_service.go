package service

import (
	"context"
	"fmt"
	"time"

	"budget-server/internal/dto"
	"budget-server/internal/models"

	"go.uber.org/zap"
)

type BudgetService struct {
	runner TxRunner
	logger *zap.Logger
}

func NewBudgetService(runner TxRunner, logger *zap.Logger) *BudgetService {
	return &BudgetService{
		runner: runner,
		logger: logger,
	}
}

func (s *BudgetService) List(ctx context.Context, p *Principal) ([]dto.BudgetResponse, error) {
	if !p.valid() {
		return nil, ErrUnauthenticated
	}

	result := make([]dto.BudgetResponse, 0)
	err := s.runner.InTx(ctx, func(ctx context.Context, st Stores) error {
		ids, err := st.Permissions.ListBudgetIDs(ctx, p.UserID, nil)
		if err != nil {
			return fmt.Errorf("list permissions: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		budgets, err := st.Budgets.ListByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}
		for _, b := range budgets {
			result = append(result, toBudgetResponse(b))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *BudgetService) Get(ctx context.Context, p *Principal, id int64) (*dto.BudgetResponse, error) {
	if !p.valid() {
		return nil, ErrUnauthenticated
	}

	var resp dto.BudgetResponse
	err := s.runner.InTx(ctx, func(ctx context.Context, st Stores) error {
		ok, err := st.Permissions.HasAccess(ctx, p.UserID, id)
		if err != nil {
			return fmt.Errorf("check permission: %w", err)
		}
		if !ok {
			return ErrNotFound
		}

		budgets, err := st.Budgets.ListByIDs(ctx, []int64{id})
		if err != nil {
			return fmt.Errorf("get budget: %w", err)
		}
		if len(budgets) == 0 {
			return ErrNotFound
		}
		resp = toBudgetResponse(budgets[0])
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

// Create stores a new budget and grants the creator access to it.
func (s *BudgetService) Create(ctx context.Context, p *Principal, req *dto.NewBudgetRequest) (*dto.BudgetResponse, error) {
	if !p.valid() {
		return nil, ErrUnauthenticated
	}
	name := cleanText(req.Name)
	if name == "" {
		return nil, invalid("Name is required")
	}

	budget := &models.Budget{
		Name:        name,
		Description: cleanOptionalText(req.Description),
	}
	err := s.runner.InTx(ctx, func(ctx context.Context, st Stores) error {
		if err := st.Budgets.Create(ctx, budget); err != nil {
			return fmt.Errorf("create budget: %w", err)
		}
		if err := st.Permissions.Grant(ctx, p.UserID, budget.ID); err != nil {
			return fmt.Errorf("grant permission: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Budget created", zap.Int64("budget_id", budget.ID), zap.Int64("user_id", p.UserID))
	resp := toBudgetResponse(budget)
	return &resp, nil
}

func toBudgetResponse(b *models.Budget) dto.BudgetResponse {
	return dto.BudgetResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
