package models

import "time"

type Budget struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Permission grants a user access to a budget.
type Permission struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	BudgetID  int64     `db:"budget_id"`
	CreatedAt time.Time `db:"created_at"`
}
