package models

import (
	"strings"
	"time"
)

type Transaction struct {
	ID          int64     `db:"id"`
	BudgetID    int64     `db:"budget_id"`
	CategoryID  *int64    `db:"category_id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Date        time.Time `db:"date"`
	Amount      int64     `db:"amount"`
	Expense     bool      `db:"expense"`
	CreatedBy   int64     `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	// Populated by reads that join categories and users.
	CategoryTitle *string `db:"-"`
	Creator       UserRef `db:"-"`
}

type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// TransactionFilter describes a range query over transactions. From and To
// are exclusive bounds. Only transactions whose category is in CategoryIDs
// match, so uncategorized ones never do.
type TransactionFilter struct {
	BudgetIDs   []int64
	CategoryIDs []int64
	From        time.Time
	To          time.Time
	SortBy      string
	SortOrder   SortOrder
	Limit       int
	Offset      int
}

// Fields transactions can be sorted by.
const (
	SortByDate      = "date"
	SortByAmount    = "amount"
	SortByTitle     = "title"
	SortByID        = "id"
	SortByExpense   = "expense"
	SortByCreatedAt = "createdAt"
)

// NormalizeSortField maps a client supplied field to a known one, defaulting to date.
func NormalizeSortField(field string) string {
	switch field {
	case SortByDate, SortByAmount, SortByTitle, SortByID, SortByExpense, SortByCreatedAt:
		return field
	}
	return SortByDate
}

// ParseSortOrder accepts ASC/DESC in any case and defaults to DESC.
func ParseSortOrder(order string) SortOrder {
	if SortOrder(strings.ToUpper(order)) == SortAsc {
		return SortAsc
	}
	return SortDesc
}
