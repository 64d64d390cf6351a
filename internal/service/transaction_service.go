package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"budget-server/internal/dto"
	"budget-server/internal/models"

	"go.uber.org/zap"
)

// DefaultPageSize applies when a list request carries no usable count.
const DefaultPageSize = 1000

type TransactionService struct {
	runner TxRunner
	logger *zap.Logger
	now    func() time.Time
}

func NewTransactionService(runner TxRunner, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		runner: runner,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the clock used for the default date range.
func (s *TransactionService) WithClock(now func() time.Time) *TransactionService {
	s.now = now
	return s
}

// List returns the caller's transactions matching the query. A transaction
// matches only through its category, so uncategorized ones are never listed.
// Bad filters never fail the request: unparseable dates fall back to the
// current month and pages past the end are empty.
func (s *TransactionService) List(ctx context.Context, p *Principal, q dto.ListTransactionsQuery) ([]dto.TransactionResponse, error) {
	if !p.valid() {
		return nil, ErrUnauthenticated
	}

	from, to := s.dateRange(q.From, q.To)
	count := q.Count
	if count <= 0 {
		count = DefaultPageSize
	}
	page := q.Page
	if page < 0 {
		page = 0
	}

	result := make([]dto.TransactionResponse, 0)
	if page > math.MaxInt/count {
		// no page this far out can hold anything
		return result, nil
	}
	err := s.runner.InTx(ctx, func(ctx context.Context, st Stores) error {
		budgetIDs, err := st.Permissions.ListBudgetIDs(ctx, p.UserID, q.BudgetIDs)
		if err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}
		if len(budgetIDs) == 0 {
			return nil
		}

		var categoryFilter []int64
		if len(q.CategoryIDs) > 0 {
			categoryFilter = q.CategoryIDs
		}
		categories, err := st.Categories.ListByBudgets(ctx, budgetIDs, categoryFilter)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		if len(categories) == 0 {
			return nil
		}

		filter := models.TransactionFilter{
			BudgetIDs:   budgetIDs,
			CategoryIDs: categoryIDs(categories),
			From:        from,
			To:          to,
			SortBy:      models.NormalizeSortField(q.SortBy),
			SortOrder:   models.ParseSortOrder(q.SortOrder),
			Limit:       count,
			Offset:      page * count,
		}

		transactions, err := st.Transactions.List(ctx, filter)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		for _, tx := range transactions {
			result = append(result, toTransactionResponse(tx))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Get returns a transaction from one of the caller's budgets. A missing and
// a forbidden transaction look the same.
func (s *TransactionService) Get(ctx context.Context, p *Principal, id int64) (*dto.TransactionResponse, error) {
	if !p.valid() {
		return nil, ErrUnauthenticated
	}

	var resp dto.TransactionResponse
	err := s.runner.InTx(ctx, func(ctx context.Context, st Stores) error {
		budgetIDs, err := st.Permissions.ListBudgetIDs(ctx, p.UserID, nil)
		if err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}

		tx, err := st.Transactions.GetByIDInBudgets(ctx, id, budgetIDs)
		if err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}

		resp = toTransactionResponse(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

func (s *TransactionService) Create(ctx context.Context, p *Principal, req *dto.NewTransactionRequest) (*dto.TransactionResponse, error) {
	if !p.valid() {
		return nil, ErrUnauthenticated
	}

	var resp dto.TransactionResponse
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
		date, err := parseDate(req.Date)
		if err != nil {
			return err
		}

		tx := &models.Transaction{
			BudgetID:    *req.BudgetID,
			Title:       title,
			Description: cleanOptionalText(req.Description),
			Date:        date,
			Amount:      req.Amount,
			Expense:     req.Expense,
			CreatedBy:   p.UserID,
		}
		if req.CategoryID != nil {
			category, err := findCategory(ctx, st, tx.BudgetID, *req.CategoryID)
			if err != nil {
				return err
			}
			if category != nil {
				tx.CategoryID = &category.ID
			}
		}

		if err := st.Transactions.Create(ctx, tx); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		saved, err := st.Transactions.GetByID(ctx, tx.ID)
		if err != nil {
			return fmt.Errorf("reload transaction: %w", err)
		}
		resp = toTransactionResponse(saved)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction created",
		zap.Int64("transaction_id", resp.ID),
		zap.Int64("budget_id", resp.BudgetID),
		zap.Int64("user_id", p.UserID),
	)
	return &resp, nil
}

// Update applies the fields present in req. Moving a transaction to another
// budget clears its category; a categoryId is then resolved against the
// final budget and dropped silently when it does not belong there.
func (s *TransactionService) Update(ctx context.Context, p *Principal, id int64, req *dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	if !p.valid() {
		return nil, ErrUnauthenticated
	}

	var resp dto.TransactionResponse
	err := s.runner.InTx(ctx, func(ctx context.Context, st Stores) error {
		tx, err := s.loadOwned(ctx, st, p, id)
		if err != nil {
			return err
		}

		if v, ok := req.Title.Get(); ok {
			if v = cleanText(v); v == "" {
				return invalid("Title is required")
			}
			tx.Title = v
		}
		if v, ok := req.Description.Get(); ok {
			tx.Description = cleanOptionalText(&v)
		}
		if v, ok := req.Date.Get(); ok {
			date, err := parseDate(v)
			if err != nil {
				return err
			}
			tx.Date = date
		}
		if v, ok := req.Amount.Get(); ok {
			tx.Amount = v
		}
		if v, ok := req.Expense.Get(); ok {
			tx.Expense = v
		}
		if budgetID, ok := req.BudgetID.Get(); ok {
			allowed, err := st.Permissions.HasAccess(ctx, p.UserID, budgetID)
			if err != nil {
				return fmt.Errorf("check permission: %w", err)
			}
			if allowed {
				tx.BudgetID = budgetID
				tx.CategoryID = nil
			}
		}
		if categoryID, ok := req.CategoryID.Get(); ok {
			category, err := findCategory(ctx, st, tx.BudgetID, categoryID)
			if err != nil {
				return err
			}
			if category != nil {
				tx.CategoryID = &category.ID
			}
		}

		if err := st.Transactions.Update(ctx, tx); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}

		saved, err := st.Transactions.GetByID(ctx, tx.ID)
		if err != nil {
			return fmt.Errorf("reload transaction: %w", err)
		}
		resp = toTransactionResponse(saved)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

func (s *TransactionService) Delete(ctx context.Context, p *Principal, id int64) error {
	if !p.valid() {
		return ErrUnauthenticated
	}

	err := s.runner.InTx(ctx, func(ctx context.Context, st Stores) error {
		if _, err := s.loadOwned(ctx, st, p, id); err != nil {
			return err
		}
		if err := st.Transactions.Delete(ctx, id); err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return fmt.Errorf("delete transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Transaction deleted", zap.Int64("transaction_id", id), zap.Int64("user_id", p.UserID))
	return nil
}

// loadOwned fetches a transaction the caller holds a permission on.
func (s *TransactionService) loadOwned(ctx context.Context, st Stores, p *Principal, id int64) (*models.Transaction, error) {
	tx, err := st.Transactions.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ok, err := st.Permissions.HasAccess(ctx, p.UserID, tx.BudgetID)
	if err != nil {
		return nil, fmt.Errorf("check permission: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	return tx, nil
}

// dateRange parses the list bounds, defaulting each to the edge of the
// current month.
func (s *TransactionService) dateRange(fromParam, toParam string) (time.Time, time.Time) {
	first, last := monthBounds(s.now())

	from := first
	if fromParam != "" {
		if t, err := time.Parse(time.RFC3339, fromParam); err == nil {
			from = t
		} else {
			s.logger.Warn("Failed to parse 'from' parameter", zap.String("value", fromParam), zap.Error(err))
		}
	}

	to := last
	if toParam != "" {
		if t, err := time.Parse(time.RFC3339, toParam); err == nil {
			to = t
		} else {
			s.logger.Warn("Failed to parse 'to' parameter", zap.String("value", toParam), zap.Error(err))
		}
	}

	return from, to
}

// monthBounds returns the first and last instant of now's month in now's location.
func monthBounds(now time.Time) (time.Time, time.Time) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return first, last
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// findCategory returns nil when the category is not part of the budget.
func findCategory(ctx context.Context, st Stores, budgetID, categoryID int64) (*models.Category, error) {
	category, err := st.Categories.GetByBudgetAndID(ctx, budgetID, categoryID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

func categoryIDs(categories []*models.Category) []int64 {
	ids := make([]int64, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return ids
}

func toTransactionResponse(tx *models.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:          tx.ID,
		Title:       tx.Title,
		Description: tx.Description,
		Date:        tx.Date.UTC().Format(time.RFC3339),
		Amount:      tx.Amount,
		Expense:     tx.Expense,
		BudgetID:    tx.BudgetID,
		CreatedBy: dto.UserRef{
			ID:       tx.Creator.ID,
			Username: tx.Creator.Username,
		},
	}
	if tx.CategoryID != nil {
		resp.Category = &dto.CategoryRef{ID: *tx.CategoryID}
		if tx.CategoryTitle != nil {
			resp.Category.Title = *tx.CategoryTitle
		}
	}
	return resp
}
