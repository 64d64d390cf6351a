package repository

import (
	"context"

	"budget-server/internal/models"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

var categoryColumns = []string{"id", "budget_id", "title", "description", "amount", "expense", "archived", "created_at", "updated_at"}

type CategoryRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewCategoryRepository(db DBTX, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	query := squirrel.Insert("categories").
		Columns("budget_id", "title", "description", "amount", "expense", "archived").
		Values(c.BudgetID, c.Title, c.Description, c.Amount, c.Expense, c.Archived).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// GetByBudgetAndID finds a category only if it belongs to the given budget.
func (r *CategoryRepository) GetByBudgetAndID(ctx context.Context, budgetID, id int64) (*models.Category, error) {
	return r.GetByIDInBudgets(ctx, id, []int64{budgetID})
}

func (r *CategoryRepository) GetByIDInBudgets(ctx context.Context, id int64, budgetIDs []int64) (*models.Category, error) {
	query := squirrel.Select(categoryColumns...).
		From("categories").
		Where(squirrel.Eq{"id": id, "budget_id": budgetIDs}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	c, err := scanCategory(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, "category")
	}
	return c, nil
}

// ListByBudgets returns the categories of the given budgets. A non-nil ids
// slice restricts the result to those categories.
func (r *CategoryRepository) ListByBudgets(ctx context.Context, budgetIDs []int64, ids []int64) ([]*models.Category, error) {
	query := squirrel.Select(categoryColumns...).
		From("categories").
		Where(squirrel.Eq{"budget_id": budgetIDs}).
		OrderBy("title ASC", "id ASC").
		PlaceholderFormat(squirrel.Dollar)
	if ids != nil {
		query = query.Where(squirrel.Eq{"id": ids})
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

	categories := make([]*models.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID, &c.BudgetID, &c.Title, &c.Description, &c.Amount, &c.Expense, &c.Archived, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
