package service

import (
	"context"

	"budget-server/internal/models"
	"budget-server/internal/repository"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type BudgetStore interface {
	Create(ctx context.Context, budget *models.Budget) error
	ListByIDs(ctx context.Context, ids []int64) ([]*models.Budget, error)
}

// PermissionStore answers which budgets a user may see and change.
type PermissionStore interface {
	HasAccess(ctx context.Context, userID, budgetID int64) (bool, error)
	// ListBudgetIDs treats an empty filter as no filter.
	ListBudgetIDs(ctx context.Context, userID int64, filter []int64) ([]int64, error)
	Grant(ctx context.Context, userID, budgetID int64) error
}

type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	GetByBudgetAndID(ctx context.Context, budgetID, id int64) (*models.Category, error)
	GetByIDInBudgets(ctx context.Context, id int64, budgetIDs []int64) (*models.Category, error)
	ListByBudgets(ctx context.Context, budgetIDs []int64, ids []int64) ([]*models.Category, error)
}

type TransactionStore interface {
	List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error)
	GetByID(ctx context.Context, id int64) (*models.Transaction, error)
	GetByIDInBudgets(ctx context.Context, id int64, budgetIDs []int64) (*models.Transaction, error)
	Create(ctx context.Context, tx *models.Transaction) error
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, id int64) error
}

// Stores is the set of stores visible inside one unit of work.
type Stores struct {
	Users        UserStore
	Budgets      BudgetStore
	Permissions  PermissionStore
	Categories   CategoryStore
	Transactions TransactionStore
}

// TxRunner executes fn atomically: all store calls made through the given
// Stores commit together or not at all.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

type postgresTxRunner struct {
	store *repository.Store
}

// NewPostgresTxRunner adapts a repository.Store to TxRunner.
func NewPostgresTxRunner(store *repository.Store) TxRunner {
	return &postgresTxRunner{store: store}
}

func (p *postgresTxRunner) InTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	return p.store.InTx(ctx, func(ctx context.Context, r *repository.Repos) error {
		return fn(ctx, Stores{
			Users:        r.Users,
			Budgets:      r.Budgets,
			Permissions:  r.Permissions,
			Categories:   r.Categories,
			Transactions: r.Transactions,
		})
	})
}
