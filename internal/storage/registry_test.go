package storage

import (
	"context"
	"testing"

	"tally/internal/core"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry(t.TempDir())
	t.Cleanup(func() {
		if err := r.CloseAll(); err != nil {
			t.Errorf("close all: %v", err)
		}
	})
	return r
}

func TestGetReturnsCachedHandle(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	first, err := r.Get(ctx, "42", 2024)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	second, err := r.Get(ctx, "42", 2024)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if first != second {
		t.Fatal("expected the same handle instance on repeated get")
	}

	other, err := r.Get(ctx, "42", 2023)
	if err != nil {
		t.Fatalf("get other year: %v", err)
	}
	if other == first {
		t.Fatal("different shard keys must not share a handle")
	}
}

func TestCloseThenGetReopens(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	first, err := r.Get(ctx, "42", 2024)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := r.Close("42", 2024); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := r.Get(ctx, "42", 2024)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if second == first {
		t.Fatal("expected a fresh handle after close")
	}

	// Schema must already be present on reopen.
	categories, err := second.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories after reopen: %v", err)
	}
	if len(categories) != 14 {
		t.Fatalf("got %d categories after reopen, want 14", len(categories))
	}
}

func TestCloseUnknownShardIsNoop(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.Close("nobody", 1999); err != nil {
		t.Fatalf("close of unopened shard: %v", err)
	}
}

func TestFreshShardSeedsDefaultCategories(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	store, err := r.Get(ctx, "7", 2024)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	categories, err := store.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(categories) != 14 {
		t.Fatalf("got %d categories, want 14", len(categories))
	}

	var income, expense int
	for _, c := range categories {
		if !c.IsDefault {
			t.Fatalf("seeded category %q is not marked default", c.Name)
		}
		switch c.Type {
		case core.Income:
			income++
		case core.Expense:
			expense++
		}
	}
	if income != 7 || expense != 7 {
		t.Fatalf("got %d income / %d expense seeds, want 7/7", income, expense)
	}

	foods, err := store.GetCategory(ctx, 9)
	if err != nil {
		t.Fatalf("get seed 9: %v", err)
	}
	if foods.Name != "Foods & Treats" || foods.Type != core.Expense {
		t.Fatalf("seed 9 = %q/%s, want Foods & Treats/expense", foods.Name, foods.Type)
	}
}

func TestUserYearsDescending(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	for _, year := range []int{2023, 2025, 2024} {
		if _, err := r.Get(ctx, "42", year); err != nil {
			t.Fatalf("get %d: %v", year, err)
		}
	}
	if _, err := r.Get(ctx, "other", 2020); err != nil {
		t.Fatalf("get other tenant: %v", err)
	}

	years, err := r.UserYears("42")
	if err != nil {
		t.Fatalf("user years: %v", err)
	}
	want := []int{2025, 2024, 2023}
	if len(years) != len(want) {
		t.Fatalf("got %v, want %v", years, want)
	}
	for i := range want {
		if years[i] != want[i] {
			t.Fatalf("got %v, want %v", years, want)
		}
	}
}

func TestUserYearsMissingDir(t *testing.T) {
	r := NewRegistry(t.TempDir() + "/never-created")
	years, err := r.UserYears("42")
	if err != nil {
		t.Fatalf("user years on missing dir: %v", err)
	}
	if len(years) != 0 {
		t.Fatalf("got %v, want empty", years)
	}
}

func TestUserYearsIgnoresBackups(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	if _, err := r.Get(ctx, "42", 2024); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := r.Backup("42", 2024); err != nil {
		t.Fatalf("backup: %v", err)
	}

	years, err := r.UserYears("42")
	if err != nil {
		t.Fatalf("user years: %v", err)
	}
	if len(years) != 1 || years[0] != 2024 {
		t.Fatalf("got %v, want [2024]", years)
	}
}
