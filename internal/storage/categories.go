package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tally/internal/core"
)

const categoryColumns = "id, name, type, is_default, created_at, updated_at"

func scanCategory(row *sql.Row) (core.Category, error) {
	var (
		c         core.Category
		isDefault int64
		createdAt string
		updatedAt string
	)
	err := row.Scan(&c.ID, &c.Name, &c.Type, &isDefault, &createdAt, &updatedAt)
	if err != nil {
		return core.Category{}, err
	}
	c.IsDefault = isDefault != 0
	c.CreatedAt = parseStoredTime(createdAt)
	c.UpdatedAt = parseStoredTime(updatedAt)
	return c, nil
}

// ListCategories returns every category in the shard ordered by
// (type, name).
func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories ORDER BY type, name")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var (
			c         core.Category
			isDefault int64
			createdAt string
			updatedAt string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &isDefault, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.IsDefault = isDefault != 0
		c.CreatedAt = parseStoredTime(createdAt)
		c.UpdatedAt = parseStoredTime(updatedAt)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetCategory returns one category by id or core.ErrNotFound.
func (s *Store) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

// CategoryExists reports whether a category id resolves in this shard.
func (s *Store) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var one int64
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM categories WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check category %d: %w", id, err)
	}
	return true, nil
}

// CreateCategory inserts a user category (never a default one) and
// returns the persisted row re-read from the store, so generated id and
// timestamps are authoritative.
func (s *Store) CreateCategory(ctx context.Context, name string, typ core.EntryType) (core.Category, error) {
	now := formatStoredTime(timeNow())
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (name, type, is_default, created_at, updated_at) VALUES (?, ?, 0, ?, ?)",
		name, typ, now, now)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category insert id: %w", err)
	}
	return s.GetCategory(ctx, id)
}

// RenameCategory updates the name (and updated_at) of an existing
// category and returns the re-read row.
func (s *Store) RenameCategory(ctx context.Context, id int64, name string) (core.Category, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, updated_at = ? WHERE id = ?",
		name, formatStoredTime(timeNow()), id)
	if err != nil {
		return core.Category{}, fmt.Errorf("rename category %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Category{}, fmt.Errorf("rename category %d: %w", id, err)
	}
	if n == 0 {
		return core.Category{}, core.ErrNotFound
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory removes a category after the guards pass: the row must
// exist, must not be a seeded default, and must not be referenced by any
// transaction in this shard.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if c.IsDefault {
		return core.ErrDefaultCategory
	}

	count, err := s.CountTransactionsByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &core.CategoryInUseError{Count: count}
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

// CountTransactionsByCategory returns how many transactions in this
// shard reference the given category.
func (s *Store) CountTransactionsByCategory(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE category_id = ?", id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count transactions for category %d: %w", id, err)
	}
	return count, nil
}
