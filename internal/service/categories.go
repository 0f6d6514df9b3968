// Package service implements the category and transaction ledgers on top
// of the shard registry. All input validation happens here, before any
// mutating storage call.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tally/internal/core"
	"tally/internal/storage"
)

// CategoryService is the category ledger, scoped per call to one
// resolved (tenant, year) shard.
type CategoryService struct {
	registry *storage.Registry
}

func NewCategoryService(registry *storage.Registry) *CategoryService {
	return &CategoryService{registry: registry}
}

// List returns the shard's categories ordered by (type, name).
func (s *CategoryService) List(ctx context.Context, tenant string, year int) ([]core.Category, error) {
	store, err := s.registry.Get(ctx, tenant, year)
	if err != nil {
		return nil, err
	}
	return store.ListCategories(ctx)
}

// Create adds a user category after validating name and type.
func (s *CategoryService) Create(ctx context.Context, tenant string, year int, name string, typ core.EntryType) (core.Category, error) {
	if err := core.ValidateCategoryName(name); err != nil {
		return core.Category{}, err
	}
	if !typ.IsValid() {
		return core.Category{}, core.ErrInvalidType
	}

	store, err := s.registry.Get(ctx, tenant, year)
	if err != nil {
		return core.Category{}, err
	}
	category, err := store.CreateCategory(ctx, strings.TrimSpace(name), typ)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	slog.InfoContext(ctx, "Category created",
		"tenant", tenant, "year", year, "category_id", category.ID, "type", category.Type)
	return category, nil
}

// Rename changes a category's name; defaults may be renamed freely.
func (s *CategoryService) Rename(ctx context.Context, tenant string, year int, id int64, name string) (core.Category, error) {
	if err := core.ValidateCategoryName(name); err != nil {
		return core.Category{}, err
	}

	store, err := s.registry.Get(ctx, tenant, year)
	if err != nil {
		return core.Category{}, err
	}
	return store.RenameCategory(ctx, id, strings.TrimSpace(name))
}

// Delete removes a category unless it is a seeded default or still
// referenced by transactions in the same shard.
func (s *CategoryService) Delete(ctx context.Context, tenant string, year int, id int64) error {
	store, err := s.registry.Get(ctx, tenant, year)
	if err != nil {
		return err
	}
	if err := store.DeleteCategory(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Category deleted",
		"tenant", tenant, "year", year, "category_id", id)
	return nil
}
