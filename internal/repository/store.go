package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("record not found")

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repos groups the repositories bound to one connection or transaction.
type Repos struct {
	Users        *UserRepository
	Budgets      *BudgetRepository
	Permissions  *PermissionRepository
	Categories   *CategoryRepository
	Transactions *TransactionRepository
}

func NewRepos(db DBTX, logger *zap.Logger) *Repos {
	return &Repos{
		Users:        NewUserRepository(db, logger),
		Budgets:      NewBudgetRepository(db, logger),
		Permissions:  NewPermissionRepository(db, logger),
		Categories:   NewCategoryRepository(db, logger),
		Transactions: NewTransactionRepository(db, logger),
	}
}

// Store hands out repositories scoped to a single database transaction.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewStore(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	return &Store{
		pool:   pool,
		logger: logger,
	}
}

// InTx runs fn inside a transaction. The transaction commits when fn returns
// nil and rolls back on error or panic.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, r *Repos) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(ctx, NewRepos(tx, s.logger))
	})
}

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", what, err)
}
