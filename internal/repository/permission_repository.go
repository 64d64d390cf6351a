package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

type PermissionRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewPermissionRepository(db DBTX, logger *zap.Logger) *PermissionRepository {
	return &PermissionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PermissionRepository) HasAccess(ctx context.Context, userID, budgetID int64) (bool, error) {
	query := squirrel.Select("COUNT(*)").
		From("permissions").
		Where(squirrel.Eq{"user_id": userID, "budget_id": budgetID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListBudgetIDs returns the budgets the user may access. A non-empty filter
// restricts the result to those ids.
func (r *PermissionRepository) ListBudgetIDs(ctx context.Context, userID int64, filter []int64) ([]int64, error) {
	query := squirrel.Select("budget_id").
		From("permissions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("budget_id ASC").
		PlaceholderFormat(squirrel.Dollar)
	if len(filter) > 0 {
		query = query.Where(squirrel.Eq{"budget_id": filter})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *PermissionRepository) Grant(ctx context.Context, userID, budgetID int64) error {
	query := squirrel.Insert("permissions").
		Columns("user_id", "budget_id").
		Values(userID, budgetID).
		Suffix("ON CONFLICT (user_id, budget_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
