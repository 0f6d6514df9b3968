package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"tally/internal/core"
)

const transactionColumns = `t.id, t.amount_cents, t.date, t.type, t.category_id,
	c.name, c.type, t.description, t.created_at, t.updated_at`

const transactionSelect = "SELECT " + transactionColumns + `
	FROM transactions t
	JOIN categories c ON c.id = t.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		date      string
		createdAt string
		updatedAt string
	)
	err := row.Scan(&t.ID, &t.Amount.Cents, &date, &t.Type, &t.CategoryID,
		&t.CategoryName, &t.CategoryType, &t.Description, &createdAt, &updatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Date = parseStoredTime(date)
	t.CreatedAt = parseStoredTime(createdAt)
	t.UpdatedAt = parseStoredTime(updatedAt)
	return t, nil
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// ListTransactions returns one page in (date desc, id desc) order plus the
// shard's total row count. The id tiebreak keeps pagination deterministic
// across equal dates.
func (s *Store) ListTransactions(ctx context.Context, limit, offset int) ([]core.Transaction, int64, error) {
	transactions, err := s.queryTransactions(ctx,
		transactionSelect+" ORDER BY t.date DESC, t.id DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}
	return transactions, total, nil
}

// ListTransactionsByRange returns transactions whose calendar date falls
// inside [start, end], time of day ignored, same ordering as the paginated
// list.
func (s *Store) ListTransactionsByRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	transactions, err := s.queryTransactions(ctx,
		transactionSelect+` WHERE date(t.date) BETWEEN date(?) AND date(?)
		ORDER BY t.date DESC, t.id DESC`,
		start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list transactions by range: %w", err)
	}
	return transactions, nil
}

// GetTransaction returns one transaction joined with its category, or
// core.ErrNotFound.
func (s *Store) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	t, err := scanTransaction(s.db.QueryRowContext(ctx,
		transactionSelect+" WHERE t.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

// CreateTransaction persists a validated input and returns the re-read
// row with category name and type attached.
func (s *Store) CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	now := formatStoredTime(timeNow())
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (amount_cents, date, type, category_id, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Amount.Cents, formatStoredTime(in.Date), in.Type, in.CategoryID, in.Description, now, now)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction insert id: %w", err)
	}
	return s.GetTransaction(ctx, id)
}

// UpdateTransaction replaces every caller-supplied field of an existing
// row and returns the re-read result.
func (s *Store) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions
		SET amount_cents = ?, date = ?, type = ?, category_id = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		in.Amount.Cents, formatStoredTime(in.Date), in.Type, in.CategoryID, in.Description,
		formatStoredTime(timeNow()), id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %d: %w", id, err)
	}
	if n == 0 {
		return core.Transaction{}, core.ErrNotFound
	}
	return s.GetTransaction(ctx, id)
}

// DeleteTransaction removes one row by id or reports core.ErrNotFound.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// YearStats aggregates the shard for one year. The totals (income,
// expenses, count) come from a single multi-aggregate query so they are
// mutually consistent; the monthly buckets are fetched concurrently and
// joined before returning.
func (s *Store) YearStats(ctx context.Context, year int) (core.YearStats, error) {
	stats := core.YearStats{Monthly: make(map[string]core.MonthlyStat)}
	yearArg := fmt.Sprintf("%04d", year)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.db.QueryRowContext(ctx,
			`SELECT
				COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents END), 0),
				COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents END), 0),
				COUNT(*)
			FROM transactions
			WHERE strftime('%Y', date) = ?`, yearArg).
			Scan(&stats.TotalIncome.Cents, &stats.TotalExpenses.Cents, &stats.TransactionCount)
		if err != nil {
			return fmt.Errorf("year totals: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT strftime('%Y-%m', date) AS month, type, SUM(amount_cents)
			FROM transactions
			WHERE strftime('%Y', date) = ?
			GROUP BY month, type
			ORDER BY month`, yearArg)
		if err != nil {
			return fmt.Errorf("monthly stats: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				month string
				typ   core.EntryType
				cents int64
			)
			if err := rows.Scan(&month, &typ, &cents); err != nil {
				return fmt.Errorf("scan monthly stat: %w", err)
			}
			bucket := stats.Monthly[month]
			switch typ {
			case core.Income:
				bucket.Income.Cents = cents
			case core.Expense:
				bucket.Expenses.Cents = cents
			}
			stats.Monthly[month] = bucket
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return core.YearStats{}, err
	}
	return stats, nil
}
