package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tally/internal/core"
)

func TestCategoryCreateValidation(t *testing.T) {
	categories, _ := newTestServices(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		catName  string
		typ      core.EntryType
		want     error
	}{
		{"empty name", "", core.Expense, core.ErrEmptyName},
		{"blank name", "   ", core.Expense, core.ErrEmptyName},
		{"empty type", "Snacks", "", core.ErrInvalidType},
		{"bad type", "Snacks", "transfer", core.ErrInvalidType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := categories.Create(ctx, "42", 2024, tc.catName, tc.typ)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}

	// Rejected creates leave only the 14 seeds.
	list, err := categories.List(ctx, "42", 2024)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 14 {
		t.Fatalf("got %d categories, want the 14 seeds", len(list))
	}
}

func TestCategoryCreateTrimsName(t *testing.T) {
	categories, _ := newTestServices(t)
	created, err := categories.Create(context.Background(), "42", 2024, "  Snacks  ", core.Expense)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Snacks" {
		t.Fatalf("name = %q", created.Name)
	}
}

func TestCategoryRenameValidation(t *testing.T) {
	categories, _ := newTestServices(t)
	ctx := context.Background()

	if _, err := categories.Rename(ctx, "42", 2024, 9, ""); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("empty rename: got %v", err)
	}
	if _, err := categories.Rename(ctx, "42", 2024, 99999, "x"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("rename missing: got %v", err)
	}

	renamed, err := categories.Rename(ctx, "42", 2024, 9, "Groceries")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "Groceries" {
		t.Fatalf("name = %q", renamed.Name)
	}
}

func TestCategoryDeleteGuards(t *testing.T) {
	categories, transactions := newTestServices(t)
	ctx := context.Background()

	if err := categories.Delete(ctx, "42", 2024, 1); !errors.Is(err, core.ErrDefaultCategory) {
		t.Fatalf("delete default: got %v", err)
	}

	custom, err := categories.Create(ctx, "42", 2024, "Custom", core.Expense)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := transactions.Create(ctx, "42",
		input(100, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), core.Expense, custom.ID)); err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	err = categories.Delete(ctx, "42", 2024, custom.ID)
	var inUse *core.CategoryInUseError
	if !errors.As(err, &inUse) || inUse.Count != 1 {
		t.Fatalf("delete referenced: got %v", err)
	}
}
