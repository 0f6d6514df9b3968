package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"tally/internal/core"
)

func mustCreateTransaction(t *testing.T, store *Store, cents int64, date time.Time, typ core.EntryType, categoryID int64) core.Transaction {
	t.Helper()
	tx, err := store.CreateTransaction(context.Background(), core.TransactionInput{
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Type:        typ,
		CategoryID:  categoryID,
		Description: "test entry",
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return tx
}

func TestCreateTransactionJoinsCategory(t *testing.T) {
	store := testStore(t)

	tx := mustCreateTransaction(t, store, 10000,
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), core.Expense, 9)

	if tx.CategoryName != "Foods & Treats" || tx.CategoryType != core.Expense {
		t.Fatalf("joined category = %q/%s", tx.CategoryName, tx.CategoryType)
	}
	if tx.Amount.Cents != 10000 {
		t.Fatalf("amount = %d", tx.Amount.Cents)
	}
	if tx.CreatedAt.IsZero() || tx.UpdatedAt.IsZero() {
		t.Fatal("timestamps missing")
	}
}

func TestListTransactionsPagination(t *testing.T) {
	store := testStore(t)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mustCreateTransaction(t, store, int64(100*(i+1)), base.AddDate(0, 0, i), core.Expense, 9)
	}

	page1, total, err := store.ListTransactions(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 || len(page1) != 2 {
		t.Fatalf("total=%d len=%d, want 5/2", total, len(page1))
	}
	// Newest first.
	if !page1[0].Date.After(page1[1].Date) {
		t.Fatalf("ordering violated: %v then %v", page1[0].Date, page1[1].Date)
	}

	page3, _, err := store.ListTransactions(context.Background(), 2, 4)
	if err != nil {
		t.Fatalf("list page 3: %v", err)
	}
	if len(page3) != 1 {
		t.Fatalf("page 3 has %d rows, want 1", len(page3))
	}
}

func TestListTransactionsEqualDatesTiebreakById(t *testing.T) {
	store := testStore(t)
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := mustCreateTransaction(t, store, 100, date, core.Expense, 9)
	b := mustCreateTransaction(t, store, 200, date, core.Expense, 9)

	items, _, err := store.ListTransactions(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if items[0].ID != b.ID || items[1].ID != a.ID {
		t.Fatalf("tiebreak order = %d, %d; want %d, %d", items[0].ID, items[1].ID, b.ID, a.ID)
	}
}

func TestListTransactionsByRangeIgnoresTimeOfDay(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	inside := mustCreateTransaction(t, store, 100,
		time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC), core.Expense, 9)
	mustCreateTransaction(t, store, 200,
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), core.Expense, 9)

	// End bound's time of day is earlier than the row's; date-only
	// comparison still includes it.
	items, err := store.ListTransactionsByRange(ctx,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(items) != 1 || items[0].ID != inside.ID {
		t.Fatalf("got %d rows, want the 2024-03-15 row only", len(items))
	}
}

func TestUpdateTransaction(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	tx := mustCreateTransaction(t, store, 5000,
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), core.Expense, 9)

	updated, err := store.UpdateTransaction(ctx, tx.ID, core.TransactionInput{
		Amount:      core.Money{Cents: 7500},
		Date:        time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
		Type:        core.Expense,
		CategoryID:  10,
		Description: "changed",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount.Cents != 7500 || updated.CategoryID != 10 || updated.Description != "changed" {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.CategoryName != "Transportation" {
		t.Fatalf("joined category after update = %q", updated.CategoryName)
	}

	_, err = store.UpdateTransaction(ctx, 99999, core.TransactionInput{
		Amount: core.Money{Cents: 1}, Date: time.Now(), Type: core.Expense, CategoryID: 9,
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update missing: got %v, want ErrNotFound", err)
	}
}

func TestDeleteTransaction(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	tx := mustCreateTransaction(t, store, 100,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), core.Income, 1)
	if err := store.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteTransaction(ctx, tx.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestYearStats(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	mustCreateTransaction(t, store, 50000,
		time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), core.Income, 1)
	mustCreateTransaction(t, store, 20000,
		time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), core.Expense, 9)

	stats, err := store.YearStats(ctx, 2024)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalIncome.Cents != 50000 {
		t.Fatalf("total income = %d", stats.TotalIncome.Cents)
	}
	if stats.TotalExpenses.Cents != 20000 {
		t.Fatalf("total expenses = %d", stats.TotalExpenses.Cents)
	}
	if stats.NetBalance() != 30000 {
		t.Fatalf("net balance = %d", stats.NetBalance())
	}
	if stats.TransactionCount != 2 {
		t.Fatalf("count = %d", stats.TransactionCount)
	}

	march, ok := stats.Monthly["2024-03"]
	if !ok {
		t.Fatalf("missing 2024-03 bucket: %v", stats.Monthly)
	}
	if march.Income.Cents != 50000 || march.Expenses.Cents != 20000 {
		t.Fatalf("march bucket = %+v", march)
	}
	if _, ok := stats.Monthly["2024-04"]; ok {
		t.Fatal("empty month must have no bucket")
	}
}

func TestYearStatsEmptyShard(t *testing.T) {
	store := testStore(t)
	stats, err := store.YearStats(context.Background(), 2024)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalIncome.Cents != 0 || stats.TotalExpenses.Cents != 0 || stats.TransactionCount != 0 {
		t.Fatalf("empty shard stats = %+v", stats)
	}
	if len(stats.Monthly) != 0 {
		t.Fatalf("empty shard has buckets: %v", stats.Monthly)
	}
}
