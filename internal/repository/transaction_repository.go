package repository

import (
	"context"
	"fmt"

	"budget-server/internal/models"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

// sortColumns maps the public sort fields to SQL columns.
var sortColumns = map[string]string{
	models.SortByDate:      "t.date",
	models.SortByAmount:    "t.amount",
	models.SortByTitle:     "t.title",
	models.SortByID:        "t.id",
	models.SortByExpense:   "t.expense",
	models.SortByCreatedAt: "t.created_at",
}

type TransactionRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewTransactionRepository(db DBTX, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func selectTransactions() squirrel.SelectBuilder {
	return squirrel.Select(
		"t.id", "t.budget_id", "t.category_id", "t.title", "t.description", "t.date", "t.amount",
		"t.expense", "t.created_by", "t.created_at", "t.updated_at", "c.title", "u.username",
	).
		From("transactions t").
		LeftJoin("categories c ON c.id = t.category_id").
		Join("users u ON u.id = t.created_by").
		PlaceholderFormat(squirrel.Dollar)
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var tx models.Transaction
	err := row.Scan(
		&tx.ID, &tx.BudgetID, &tx.CategoryID, &tx.Title, &tx.Description, &tx.Date, &tx.Amount,
		&tx.Expense, &tx.CreatedBy, &tx.CreatedAt, &tx.UpdatedAt, &tx.CategoryTitle, &tx.Creator.Username,
	)
	if err != nil {
		return nil, err
	}
	tx.Creator.ID = tx.CreatedBy
	return &tx, nil
}

// List runs a filtered, sorted and paginated range query.
func (r *TransactionRepository) List(ctx context.Context, f models.TransactionFilter) ([]*models.Transaction, error) {
	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = sortColumns[models.SortByDate]
	}
	order := models.ParseSortOrder(string(f.SortOrder))

	query := selectTransactions().
		Where(squirrel.Eq{"t.budget_id": f.BudgetIDs}).
		Where(squirrel.Eq{"t.category_id": f.CategoryIDs}).
		Where(squirrel.Gt{"t.date": f.From}).
		Where(squirrel.Lt{"t.date": f.To}).
		OrderBy(fmt.Sprintf("%s %s", column, order), fmt.Sprintf("t.id %s", order))
	if f.Limit > 0 {
		query = query.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		query = query.Offset(uint64(f.Offset))
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

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	return r.getOne(ctx, squirrel.Eq{"t.id": id})
}

// GetByIDInBudgets finds a transaction only if its budget is in budgetIDs.
func (r *TransactionRepository) GetByIDInBudgets(ctx context.Context, id int64, budgetIDs []int64) (*models.Transaction, error) {
	return r.getOne(ctx, squirrel.Eq{"t.id": id, "t.budget_id": budgetIDs})
}

func (r *TransactionRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Transaction, error) {
	sql, args, err := selectTransactions().Where(where).ToSql()
	if err != nil {
		return nil, err
	}

	tx, err := scanTransaction(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, "transaction")
	}
	return tx, nil
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Insert("transactions").
		Columns("budget_id", "category_id", "title", "description", "date", "amount", "expense", "created_by").
		Values(tx.BudgetID, tx.CategoryID, tx.Title, tx.Description, tx.Date, tx.Amount, tx.Expense, tx.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, sql, args...).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
}

// Update writes every mutable column of tx.
func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Update("transactions").
		Set("budget_id", tx.BudgetID).
		Set("category_id", tx.CategoryID).
		Set("title", tx.Title).
		Set("description", tx.Description).
		Set("date", tx.Date).
		Set("amount", tx.Amount).
		Set("expense", tx.Expense).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": tx.ID}).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&tx.UpdatedAt); err != nil {
		return notFound(err, "transaction")
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("transactions").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return nil
}
