package service_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"budget-server/internal/dto"
	"budget-server/internal/models"
	"budget-server/internal/repository/memory"
	"budget-server/internal/service"

	"go.uber.org/zap"
)

var (
	alice = &service.Principal{UserID: 1, Username: "alice"}
	bob   = &service.Principal{UserID: 2, Username: "bob"}
)

func ptr[T any](v T) *T { return &v }

// fixture: alice may use budget 1 (and 2 when shared), bob only budget 2.
// Categories 10 and 11 belong to budget 1, 20 to budget 2.
func newFixture(t *testing.T, shareBudget2 bool) (*memory.Store, *service.TransactionService) {
	t.Helper()
	store := memory.New()
	store.PutUser(models.User{ID: 1, Username: "alice"})
	store.PutUser(models.User{ID: 2, Username: "bob"})
	store.PutBudget(models.Budget{ID: 1, Name: "Household"})
	store.PutBudget(models.Budget{ID: 2, Name: "Travel"})
	store.PutPermission(1, 1)
	store.PutPermission(2, 2)
	if shareBudget2 {
		store.PutPermission(1, 2)
	}
	store.PutCategory(models.Category{ID: 10, BudgetID: 1, Title: "Groceries"})
	store.PutCategory(models.Category{ID: 11, BudgetID: 1, Title: "Rent"})
	store.PutCategory(models.Category{ID: 20, BudgetID: 2, Title: "Flights"})

	svc := service.NewTransactionService(store, zap.NewNop())
	return store, svc
}

func putTx(store *memory.Store, id, budget int64, category *int64, date time.Time, amount int64) {
	store.PutTransaction(models.Transaction{
		ID:         id,
		BudgetID:   budget,
		CategoryID: category,
		Title:      "tx",
		Date:       date,
		Amount:     amount,
		Expense:    true,
		CreatedBy:  1,
	})
}

func TestCreateRejectsBudgetWithoutPermission(t *testing.T) {
	_, svc := newFixture(t, false)

	_, err := svc.Create(context.Background(), alice, &dto.NewTransactionRequest{
		BudgetID: ptr(int64(2)),
		Title:    "Ticket",
		Date:     "2024-01-10T10:00:00Z",
		Amount:   100,
	})
	if !errors.Is(err, service.ErrInvalidBudget) {
		t.Fatalf("err = %v, want ErrInvalidBudget", err)
	}

	_, err = svc.Create(context.Background(), alice, &dto.NewTransactionRequest{Title: "x", Date: "2024-01-10T10:00:00Z"})
	if !errors.Is(err, service.ErrInvalidBudget) {
		t.Fatalf("missing budget: err = %v", err)
	}
}

func TestCreateResolvesCategoryWithinBudget(t *testing.T) {
	store, svc := newFixture(t, false)
	ctx := context.Background()

	resp, err := svc.Create(ctx, alice, &dto.NewTransactionRequest{
		BudgetID:    ptr(int64(1)),
		CategoryID:  ptr(int64(10)),
		Title:       "Milk",
		Description: ptr("2 litres"),
		Date:        "2024-01-10T10:00:00Z",
		Amount:      250,
		Expense:     true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Category == nil || resp.Category.ID != 10 || resp.Category.Title != "Groceries" {
		t.Errorf("category = %+v", resp.Category)
	}
	if resp.CreatedBy.ID != 1 || resp.CreatedBy.Username != "alice" {
		t.Errorf("createdBy = %+v", resp.CreatedBy)
	}
	if resp.Date != "2024-01-10T10:00:00Z" || resp.Amount != 250 || !resp.Expense {
		t.Errorf("resp = %+v", resp)
	}
	if _, ok := store.Transaction(resp.ID); !ok {
		t.Error("transaction not stored")
	}

	// category 20 belongs to budget 2 and is dropped
	resp, err = svc.Create(ctx, alice, &dto.NewTransactionRequest{
		BudgetID:   ptr(int64(1)),
		CategoryID: ptr(int64(20)),
		Title:      "Mismatch",
		Date:       "2024-01-11T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Category != nil {
		t.Errorf("foreign category kept: %+v", resp.Category)
	}
}

func TestCreateValidation(t *testing.T) {
	_, svc := newFixture(t, false)
	ctx := context.Background()

	_, err := svc.Create(ctx, alice, &dto.NewTransactionRequest{BudgetID: ptr(int64(1)), Title: "x", Date: "yesterday"})
	if !errors.Is(err, service.ErrInvalidDate) {
		t.Errorf("bad date: err = %v", err)
	}

	_, err = svc.Create(ctx, alice, &dto.NewTransactionRequest{BudgetID: ptr(int64(1)), Date: "2024-01-10T10:00:00Z"})
	var ve *service.ValidationError
	if !errors.As(err, &ve) || ve.Message != "Title is required" {
		t.Errorf("empty title: err = %v", err)
	}
}

func TestUpdateBudgetReassignmentClearsCategory(t *testing.T) {
	store, svc := newFixture(t, true)
	putTx(store, 100, 1, ptr(int64(10)), time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 100)

	resp, err := svc.Update(context.Background(), alice, 100, &dto.UpdateTransactionRequest{
		BudgetID: dto.Some(int64(2)),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.BudgetID != 2 {
		t.Errorf("budget = %d, want 2", resp.BudgetID)
	}
	if resp.Category != nil {
		t.Errorf("category = %+v, want none", resp.Category)
	}
}

func TestUpdateCategoryResolvedAgainstFinalBudget(t *testing.T) {
	store, svc := newFixture(t, true)
	ctx := context.Background()
	putTx(store, 100, 1, ptr(int64(10)), time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 100)

	resp, err := svc.Update(ctx, alice, 100, &dto.UpdateTransactionRequest{
		BudgetID:   dto.Some(int64(2)),
		CategoryID: dto.Some(int64(20)),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Category == nil || resp.Category.ID != 20 {
		t.Errorf("category = %+v, want 20", resp.Category)
	}

	// 11 belongs to budget 1, not the final budget 2
	resp, err = svc.Update(ctx, alice, 100, &dto.UpdateTransactionRequest{CategoryID: dto.Some(int64(11))})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Category == nil || resp.Category.ID != 20 {
		t.Errorf("category = %+v, want unchanged 20", resp.Category)
	}
}

func TestUpdateIgnoresBudgetWithoutPermission(t *testing.T) {
	store, svc := newFixture(t, false)
	putTx(store, 100, 1, ptr(int64(10)), time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 100)

	resp, err := svc.Update(context.Background(), alice, 100, &dto.UpdateTransactionRequest{
		BudgetID: dto.Some(int64(2)),
		Title:    dto.Some("Renamed"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.BudgetID != 1 || resp.Category == nil || resp.Category.ID != 10 {
		t.Errorf("resp = %+v, want budget 1 category 10", resp)
	}
	if resp.Title != "Renamed" {
		t.Errorf("title = %q", resp.Title)
	}
}

func TestUpdateAppliesOnlyPresentFields(t *testing.T) {
	store, svc := newFixture(t, false)
	putTx(store, 100, 1, nil, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 100)

	resp, err := svc.Update(context.Background(), alice, 100, &dto.UpdateTransactionRequest{
		Amount:      dto.Some(int64(-40)),
		Expense:     dto.Some(false),
		Description: dto.Some("refund"),
		Date:        dto.Some("2024-01-07T08:30:00Z"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Title != "tx" {
		t.Errorf("title changed to %q", resp.Title)
	}
	if resp.Amount != -40 || resp.Expense || resp.Description == nil || *resp.Description != "refund" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Date != "2024-01-07T08:30:00Z" {
		t.Errorf("date = %s", resp.Date)
	}

	_, err = svc.Update(context.Background(), alice, 100, &dto.UpdateTransactionRequest{Date: dto.Some("soon")})
	if !errors.Is(err, service.ErrInvalidDate) {
		t.Errorf("bad date: err = %v", err)
	}
	stored, _ := store.Transaction(100)
	if stored.Amount != -40 {
		t.Errorf("failed update leaked: amount = %d", stored.Amount)
	}

	_, err = svc.Update(context.Background(), alice, 100, &dto.UpdateTransactionRequest{
		Title:  dto.Some("  "),
		Amount: dto.Some(int64(1)),
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Errorf("blank title: err = %v", err)
	}
	if stored, _ := store.Transaction(100); stored.Amount != -40 {
		t.Errorf("failed update leaked: amount = %d", stored.Amount)
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	store, svc := newFixture(t, true)
	putTx(store, 100, 1, ptr(int64(10)), time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 100)
	req := &dto.UpdateTransactionRequest{
		Title:      dto.Some("Same"),
		BudgetID:   dto.Some(int64(2)),
		CategoryID: dto.Some(int64(20)),
		Amount:     dto.Some(int64(5)),
	}

	first, err := svc.Update(context.Background(), alice, 100, req)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	firstStored, _ := store.Transaction(100)

	second, err := svc.Update(context.Background(), alice, 100, req)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	secondStored, _ := store.Transaction(100)

	if *first.Category != *second.Category || first.BudgetID != second.BudgetID || first.Title != second.Title || first.Amount != second.Amount {
		t.Errorf("responses differ: %+v vs %+v", first, second)
	}
	if *firstStored.CategoryID != *secondStored.CategoryID || firstStored.BudgetID != secondStored.BudgetID {
		t.Errorf("stored state differs: %+v vs %+v", firstStored, secondStored)
	}
}

func TestForeignTransactionLooksMissing(t *testing.T) {
	store, svc := newFixture(t, false)
	ctx := context.Background()
	putTx(store, 100, 1, nil, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 100)

	if _, err := svc.Get(ctx, bob, 100); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("get: err = %v", err)
	}
	if _, err := svc.Update(ctx, bob, 100, &dto.UpdateTransactionRequest{Title: dto.Some("mine")}); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("update: err = %v", err)
	}
	if err := svc.Delete(ctx, bob, 100); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("delete: err = %v", err)
	}
	if _, ok := store.Transaction(100); !ok {
		t.Error("transaction deleted by a stranger")
	}

	if _, err := svc.Get(ctx, alice, 999); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("missing: err = %v", err)
	}
}

func TestDelete(t *testing.T) {
	store, svc := newFixture(t, false)
	ctx := context.Background()
	putTx(store, 100, 1, nil, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 100)

	if err := svc.Delete(ctx, alice, 100); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, alice, 100); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("after delete: err = %v", err)
	}
	if err := svc.Delete(ctx, alice, 100); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}

func TestListDateWindowSortedByAmount(t *testing.T) {
	store, svc := newFixture(t, false)
	jan := func(d int) time.Time { return time.Date(2024, 1, d, 9, 0, 0, 0, time.UTC) }
	putTx(store, 100, 1, ptr(int64(10)), jan(3), 300)
	putTx(store, 101, 1, ptr(int64(11)), jan(15), 100)
	putTx(store, 102, 1, ptr(int64(11)), jan(20), 200)
	putTx(store, 103, 1, ptr(int64(10)), time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC), 50)
	putTx(store, 104, 2, ptr(int64(20)), jan(10), 10)

	got, err := svc.List(context.Background(), alice, dto.ListTransactionsQuery{
		From:      "2024-01-01T00:00:00Z",
		To:        "2024-01-31T23:59:59Z",
		SortBy:    "amount",
		SortOrder: "ASC",
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	want := []int64{101, 102, 100}
	if len(got) != len(want) {
		t.Fatalf("got %d transactions, want %d: %+v", len(got), len(want), got)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: id %d, want %d", i, got[i].ID, id)
		}
	}
}

func TestListFilters(t *testing.T) {
	store, svc := newFixture(t, true)
	jan := func(d int) time.Time { return time.Date(2024, 1, d, 9, 0, 0, 0, time.UTC) }
	putTx(store, 100, 1, ptr(int64(10)), jan(3), 300)
	putTx(store, 101, 1, ptr(int64(11)), jan(15), 100)
	putTx(store, 102, 1, ptr(int64(11)), jan(20), 200)
	putTx(store, 104, 2, ptr(int64(20)), jan(10), 10)
	window := dto.ListTransactionsQuery{From: "2024-01-01T00:00:00Z", To: "2024-02-01T00:00:00Z", SortBy: "id", SortOrder: "asc"}

	tests := []struct {
		name   string
		mutate func(q *dto.ListTransactionsQuery)
		want   []int64
	}{
		{"all budgets", func(q *dto.ListTransactionsQuery) {}, []int64{100, 101, 102, 104}},
		{"budget filter", func(q *dto.ListTransactionsQuery) { q.BudgetIDs = []int64{2} }, []int64{104}},
		{"unpermitted budget filter", func(q *dto.ListTransactionsQuery) { q.BudgetIDs = []int64{99} }, []int64{}},
		{"category filter", func(q *dto.ListTransactionsQuery) { q.CategoryIDs = []int64{10, 20} }, []int64{100, 104}},
		{"category outside budgets", func(q *dto.ListTransactionsQuery) {
			q.BudgetIDs = []int64{1}
			q.CategoryIDs = []int64{20}
		}, []int64{}},
		{"page size", func(q *dto.ListTransactionsQuery) { q.Count = 2 }, []int64{100, 101}},
		{"second page", func(q *dto.ListTransactionsQuery) { q.Count = 2; q.Page = 1 }, []int64{102, 104}},
		{"default sort is date desc", func(q *dto.ListTransactionsQuery) { q.SortBy = ""; q.SortOrder = "" }, []int64{102, 101, 104, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := window
			tt.mutate(&q)
			got, err := svc.List(context.Background(), alice, q)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if got == nil {
				t.Fatal("List returned nil slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d transactions, want %v", len(got), tt.want)
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d: id %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestListSkipsUncategorized(t *testing.T) {
	store, svc := newFixture(t, false)
	jan := func(d int) time.Time { return time.Date(2024, 1, d, 9, 0, 0, 0, time.UTC) }
	putTx(store, 100, 1, nil, jan(10), 5)
	putTx(store, 101, 1, ptr(int64(10)), jan(11), 6)

	for _, q := range []dto.ListTransactionsQuery{
		{From: "2024-01-01T00:00:00Z", To: "2024-01-31T00:00:00Z"},
		{From: "2024-01-01T00:00:00Z", To: "2024-01-31T00:00:00Z", CategoryIDs: []int64{10, 11}},
	} {
		got, err := svc.List(context.Background(), alice, q)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 1 || got[0].ID != 101 {
			t.Errorf("query %+v: got %+v, want [101]", q, got)
		}
	}
}

func TestListPageFarPastEnd(t *testing.T) {
	store, svc := newFixture(t, false)
	putTx(store, 100, 1, ptr(int64(10)), time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 5)

	for _, page := range []int{1<<61 + 1, 1 << 62, math.MaxInt} {
		got, err := svc.List(context.Background(), alice, dto.ListTransactionsQuery{
			From:  "2024-01-01T00:00:00Z",
			To:    "2024-01-31T00:00:00Z",
			Page:  page,
			Count: 4,
		})
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("page %d: got %+v, want empty list", page, got)
		}
	}
}

func TestListDefaultsToCurrentMonth(t *testing.T) {
	store, svc := newFixture(t, false)
	svc.WithClock(func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) })

	putTx(store, 100, 1, ptr(int64(10)), time.Date(2024, 3, 1, 0, 0, 0, 1, time.UTC), 1)
	putTx(store, 101, 1, ptr(int64(10)), time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC), 2)
	putTx(store, 102, 1, ptr(int64(10)), time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), 3)
	putTx(store, 103, 1, ptr(int64(10)), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 4)

	for _, q := range []dto.ListTransactionsQuery{
		{},
		{From: "not-a-date", To: "also-not"},
	} {
		got, err := svc.List(context.Background(), alice, q)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 2 || got[0].ID != 101 || got[1].ID != 100 {
			t.Errorf("query %+v: got %+v, want [101 100]", q, got)
		}
	}
}

func TestUnauthenticated(t *testing.T) {
	_, svc := newFixture(t, false)
	ctx := context.Background()

	if _, err := svc.List(ctx, nil, dto.ListTransactionsQuery{}); !errors.Is(err, service.ErrUnauthenticated) {
		t.Errorf("list: %v", err)
	}
	if _, err := svc.Get(ctx, &service.Principal{}, 1); !errors.Is(err, service.ErrUnauthenticated) {
		t.Errorf("get: %v", err)
	}
	if _, err := svc.Create(ctx, nil, &dto.NewTransactionRequest{}); !errors.Is(err, service.ErrUnauthenticated) {
		t.Errorf("create: %v", err)
	}
	if _, err := svc.Update(ctx, nil, 1, &dto.UpdateTransactionRequest{}); !errors.Is(err, service.ErrUnauthenticated) {
		t.Errorf("update: %v", err)
	}
	if err := svc.Delete(ctx, nil, 1); !errors.Is(err, service.ErrUnauthenticated) {
		t.Errorf("delete: %v", err)
	}
}
