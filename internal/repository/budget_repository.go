package repository

import (
	"context"

	"budget-server/internal/models"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

type BudgetRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewBudgetRepository(db DBTX, logger *zap.Logger) *BudgetRepository {
	return &BudgetRepository{
		db:     db,
		logger: logger,
	}
}

func (r *BudgetRepository) Create(ctx context.Context, budget *models.Budget) error {
	query := squirrel.Insert("budgets").
		Columns("name", "description").
		Values(budget.Name, budget.Description).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, sql, args...).Scan(&budget.ID, &budget.CreatedAt, &budget.UpdatedAt)
}

// ListByIDs returns the budgets with the given ids ordered by name.
func (r *BudgetRepository) ListByIDs(ctx context.Context, ids []int64) ([]*models.Budget, error) {
	query := squirrel.Select("id", "name", "description", "created_at", "updated_at").
		From("budgets").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("name ASC", "id ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := make([]*models.Budget, 0)
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, &b)
	}

	return budgets, rows.Err()
}
