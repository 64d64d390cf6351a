// Package memory keeps users, budgets, categories and transactions in process
// memory. Units of work are serialised and rolled back by snapshot.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"budget-server/internal/models"
	"budget-server/internal/repository"
	"budget-server/internal/service"
)

type permissionKey struct {
	userID   int64
	budgetID int64
}

type state struct {
	users        map[int64]models.User
	budgets      map[int64]models.Budget
	permissions  map[permissionKey]struct{}
	categories   map[int64]models.Category
	transactions map[int64]models.Transaction
	lastID       int64
}

func newState() *state {
	return &state{
		users:        make(map[int64]models.User),
		budgets:      make(map[int64]models.Budget),
		permissions:  make(map[permissionKey]struct{}),
		categories:   make(map[int64]models.Category),
		transactions: make(map[int64]models.Transaction),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.budgets {
		c.budgets[k] = v
	}
	for k := range s.permissions {
		c.permissions[k] = struct{}{}
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	c.lastID = s.lastID
	return c
}

func (s *state) nextID() int64 {
	s.lastID++
	return s.lastID
}

func (s *state) seen(id int64) {
	if id > s.lastID {
		s.lastID = id
	}
}

// Store implements service.TxRunner.
type Store struct {
	mu   sync.Mutex
	data *state
	now  func() time.Time
}

func New() *Store {
	return &Store{
		data: newState(),
		now:  time.Now,
	}
}

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, st service.Stores) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	committed := false
	defer func() {
		if !committed {
			s.data = snapshot
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(ctx, service.Stores{
		Users:        userStore{s},
		Budgets:      budgetStore{s},
		Permissions:  permissionStore{s},
		Categories:   categoryStore{s},
		Transactions: transactionStore{s},
	}); err != nil {
		return err
	}
	committed = true
	return nil
}

// The Put helpers load fixtures with fixed ids.

func (s *Store) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.seen(u.ID)
	s.data.users[u.ID] = u
}

func (s *Store) PutBudget(b models.Budget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.seen(b.ID)
	s.data.budgets[b.ID] = b
}

func (s *Store) PutPermission(userID, budgetID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.permissions[permissionKey{userID, budgetID}] = struct{}{}
}

func (s *Store) PutCategory(c models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.seen(c.ID)
	s.data.categories[c.ID] = c
}

func (s *Store) PutTransaction(tx models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.seen(tx.ID)
	s.data.transactions[tx.ID] = tx
}

// Transaction returns the stored record without joined fields.
func (s *Store) Transaction(id int64) (models.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.data.transactions[id]
	return tx, ok
}

type userStore struct{ s *Store }

func (u userStore) Create(_ context.Context, user *models.User) error {
	now := u.s.now()
	user.ID = u.s.data.nextID()
	user.CreatedAt, user.UpdatedAt = now, now
	u.s.data.users[user.ID] = *user
	return nil
}

func (u userStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range u.s.data.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u userStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := u.s.data.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

type budgetStore struct{ s *Store }

func (b budgetStore) Create(_ context.Context, budget *models.Budget) error {
	now := b.s.now()
	budget.ID = b.s.data.nextID()
	budget.CreatedAt, budget.UpdatedAt = now, now
	b.s.data.budgets[budget.ID] = *budget
	return nil
}

func (b budgetStore) ListByIDs(_ context.Context, ids []int64) ([]*models.Budget, error) {
	budgets := make([]*models.Budget, 0, len(ids))
	for _, id := range ids {
		if budget, ok := b.s.data.budgets[id]; ok {
			budgets = append(budgets, &budget)
		}
	}
	sort.Slice(budgets, func(i, j int) bool {
		if budgets[i].Name != budgets[j].Name {
			return budgets[i].Name < budgets[j].Name
		}
		return budgets[i].ID < budgets[j].ID
	})
	return budgets, nil
}

type permissionStore struct{ s *Store }

func (p permissionStore) HasAccess(_ context.Context, userID, budgetID int64) (bool, error) {
	_, ok := p.s.data.permissions[permissionKey{userID, budgetID}]
	return ok, nil
}

func (p permissionStore) ListBudgetIDs(_ context.Context, userID int64, filter []int64) ([]int64, error) {
	ids := make([]int64, 0)
	for key := range p.s.data.permissions {
		if key.userID != userID {
			continue
		}
		if len(filter) > 0 && !contains(filter, key.budgetID) {
			continue
		}
		ids = append(ids, key.budgetID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (p permissionStore) Grant(_ context.Context, userID, budgetID int64) error {
	p.s.data.permissions[permissionKey{userID, budgetID}] = struct{}{}
	return nil
}

type categoryStore struct{ s *Store }

func (c categoryStore) Create(_ context.Context, category *models.Category) error {
	now := c.s.now()
	category.ID = c.s.data.nextID()
	category.CreatedAt, category.UpdatedAt = now, now
	c.s.data.categories[category.ID] = *category
	return nil
}

func (c categoryStore) GetByBudgetAndID(ctx context.Context, budgetID, id int64) (*models.Category, error) {
	return c.GetByIDInBudgets(ctx, id, []int64{budgetID})
}

func (c categoryStore) GetByIDInBudgets(_ context.Context, id int64, budgetIDs []int64) (*models.Category, error) {
	category, ok := c.s.data.categories[id]
	if !ok || !contains(budgetIDs, category.BudgetID) {
		return nil, repository.ErrNotFound
	}
	return &category, nil
}

func (c categoryStore) ListByBudgets(_ context.Context, budgetIDs []int64, ids []int64) ([]*models.Category, error) {
	categories := make([]*models.Category, 0)
	for _, category := range c.s.data.categories {
		if !contains(budgetIDs, category.BudgetID) {
			continue
		}
		if ids != nil && !contains(ids, category.ID) {
			continue
		}
		category := category
		categories = append(categories, &category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Title != categories[j].Title {
			return categories[i].Title < categories[j].Title
		}
		return categories[i].ID < categories[j].ID
	})
	return categories, nil
}

type transactionStore struct{ s *Store }

// joined fills the fields a SQL read would get from categories and users.
func (t transactionStore) joined(tx models.Transaction) *models.Transaction {
	tx.CategoryTitle = nil
	if tx.CategoryID != nil {
		if category, ok := t.s.data.categories[*tx.CategoryID]; ok {
			title := category.Title
			tx.CategoryTitle = &title
		}
	}
	tx.Creator = models.UserRef{ID: tx.CreatedBy}
	if user, ok := t.s.data.users[tx.CreatedBy]; ok {
		tx.Creator.Username = user.Username
	}
	return &tx
}

func (t transactionStore) List(_ context.Context, f models.TransactionFilter) ([]*models.Transaction, error) {
	matched := make([]*models.Transaction, 0)
	for _, tx := range t.s.data.transactions {
		if !contains(f.BudgetIDs, tx.BudgetID) {
			continue
		}
		if tx.CategoryID == nil || !contains(f.CategoryIDs, *tx.CategoryID) {
			continue
		}
		if !tx.Date.After(f.From) || !tx.Date.Before(f.To) {
			continue
		}
		matched = append(matched, t.joined(tx))
	}

	less := lessBy(models.NormalizeSortField(f.SortBy))
	desc := models.ParseSortOrder(string(f.SortOrder)) == models.SortDesc
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if desc {
			a, b = b, a
		}
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.ID < b.ID
	})

	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Offset >= len(matched) {
		return make([]*models.Transaction, 0), nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

func (t transactionStore) GetByID(_ context.Context, id int64) (*models.Transaction, error) {
	tx, ok := t.s.data.transactions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t.joined(tx), nil
}

func (t transactionStore) GetByIDInBudgets(ctx context.Context, id int64, budgetIDs []int64) (*models.Transaction, error) {
	tx, err := t.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !contains(budgetIDs, tx.BudgetID) {
		return nil, repository.ErrNotFound
	}
	return tx, nil
}

func (t transactionStore) Create(_ context.Context, tx *models.Transaction) error {
	now := t.s.now()
	tx.ID = t.s.data.nextID()
	tx.CreatedAt, tx.UpdatedAt = now, now
	t.s.data.transactions[tx.ID] = stripJoined(*tx)
	return nil
}

func (t transactionStore) Update(_ context.Context, tx *models.Transaction) error {
	existing, ok := t.s.data.transactions[tx.ID]
	if !ok {
		return repository.ErrNotFound
	}
	tx.CreatedAt = existing.CreatedAt
	tx.CreatedBy = existing.CreatedBy
	tx.UpdatedAt = t.s.now()
	t.s.data.transactions[tx.ID] = stripJoined(*tx)
	return nil
}

func (t transactionStore) Delete(_ context.Context, id int64) error {
	if _, ok := t.s.data.transactions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(t.s.data.transactions, id)
	return nil
}

func stripJoined(tx models.Transaction) models.Transaction {
	tx.CategoryTitle = nil
	tx.Creator = models.UserRef{}
	return tx
}

func lessBy(field string) func(a, b *models.Transaction) bool {
	switch field {
	case models.SortByAmount:
		return func(a, b *models.Transaction) bool { return a.Amount < b.Amount }
	case models.SortByTitle:
		return func(a, b *models.Transaction) bool { return strings.Compare(a.Title, b.Title) < 0 }
	case models.SortByID:
		return func(a, b *models.Transaction) bool { return a.ID < b.ID }
	case models.SortByExpense:
		return func(a, b *models.Transaction) bool { return !a.Expense && b.Expense }
	case models.SortByCreatedAt:
		return func(a, b *models.Transaction) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return func(a, b *models.Transaction) bool { return a.Date.Before(b.Date) }
	}
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
