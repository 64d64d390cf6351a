package models

import "time"

type Category struct {
	ID          int64     `db:"id"`
	BudgetID    int64     `db:"budget_id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Amount      int64     `db:"amount"`
	Expense     bool      `db:"expense"`
	Archived    bool      `db:"archived"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
