package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/storage"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 50
)

// TransactionService is the transaction ledger. Create and update resolve
// the owning shard from the transaction date's year, not from the
// caller's current context.
type TransactionService struct {
	registry *storage.Registry
	events   *amqp.Client
}

// NewTransactionService builds the ledger. events may be nil; mutations
// are then not announced.
func NewTransactionService(registry *storage.Registry, events *amqp.Client) *TransactionService {
	return &TransactionService{registry: registry, events: events}
}

// List returns one page of the shard's transactions. Non-positive page or
// pageSize fall back to the 1/50 defaults.
func (s *TransactionService) List(ctx context.Context, tenant string, year, page, pageSize int) (core.TransactionPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	store, err := s.registry.Get(ctx, tenant, year)
	if err != nil {
		return core.TransactionPage{}, err
	}
	items, total, err := store.ListTransactions(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return core.TransactionPage{}, err
	}
	return core.NewTransactionPage(items, total, page, pageSize), nil
}

// ListByRange returns the shard's transactions dated inside [start, end],
// both bounds required, time of day ignored.
func (s *TransactionService) ListByRange(ctx context.Context, tenant string, year int, start, end time.Time) ([]core.Transaction, error) {
	if start.IsZero() || end.IsZero() {
		return nil, core.ErrMissingRange
	}

	store, err := s.registry.Get(ctx, tenant, year)
	if err != nil {
		return nil, err
	}
	return store.ListTransactionsByRange(ctx, start, end)
}

// Get returns one transaction from the (tenant, year) shard.
func (s *TransactionService) Get(ctx context.Context, tenant string, year int, id int64) (core.Transaction, error) {
	store, err := s.registry.Get(ctx, tenant, year)
	if err != nil {
		return core.Transaction{}, err
	}
	return store.GetTransaction(ctx, id)
}

// Create validates the input, resolves the shard from the date's year,
// checks the category reference in that shard and persists the row.
func (s *TransactionService) Create(ctx context.Context, tenant string, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	year := in.Date.Year()
	store, err := s.registry.Get(ctx, tenant, year)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := s.requireCategory(ctx, store, in.CategoryID); err != nil {
		return core.Transaction{}, err
	}

	tx, err := store.CreateTransaction(ctx, in)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"tenant", tenant, "year", year, "transaction_id", tx.ID,
		"type", tx.Type, "amount_cents", tx.Amount.Cents)
	s.publish(ctx, tenant, year, tx.ID, amqp.ActionCreated)
	return tx, nil
}

// Update applies the same validation as Create. year names the shard the
// row currently lives in; when the new date crosses a year boundary the
// row is moved: inserted into the new year's shard, then deleted from the
// source. The moved row gets a fresh shard-local id.
func (s *TransactionService) Update(ctx context.Context, tenant string, year int, id int64, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	newYear := in.Date.Year()
	if newYear == year {
		store, err := s.registry.Get(ctx, tenant, year)
		if err != nil {
			return core.Transaction{}, err
		}
		if err := s.requireCategory(ctx, store, in.CategoryID); err != nil {
			return core.Transaction{}, err
		}
		tx, err := store.UpdateTransaction(ctx, id, in)
		if err != nil {
			return core.Transaction{}, err
		}
		s.publish(ctx, tenant, year, tx.ID, amqp.ActionUpdated)
		return tx, nil
	}

	return s.moveAcrossYears(ctx, tenant, year, newYear, id, in)
}

func (s *TransactionService) moveAcrossYears(ctx context.Context, tenant string, fromYear, toYear int, id int64, in core.TransactionInput) (core.Transaction, error) {
	source, err := s.registry.Get(ctx, tenant, fromYear)
	if err != nil {
		return core.Transaction{}, err
	}
	if _, err := source.GetTransaction(ctx, id); err != nil {
		return core.Transaction{}, err
	}

	target, err := s.registry.Get(ctx, tenant, toYear)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := s.requireCategory(ctx, target, in.CategoryID); err != nil {
		return core.Transaction{}, err
	}

	moved, err := target.CreateTransaction(ctx, in)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("move transaction to %d: %w", toYear, err)
	}
	if err := source.DeleteTransaction(ctx, id); err != nil {
		// The copy exists in the target shard; surface the failure
		// rather than silently leaving both rows.
		return core.Transaction{}, fmt.Errorf("remove moved transaction from %d: %w", fromYear, err)
	}

	slog.InfoContext(ctx, "Transaction moved across years",
		"tenant", tenant, "from_year", fromYear, "to_year", toYear,
		"old_id", id, "new_id", moved.ID)
	s.publish(ctx, tenant, fromYear, id, amqp.ActionDeleted)
	s.publish(ctx, tenant, toYear, moved.ID, amqp.ActionCreated)
	return moved, nil
}

// Delete removes one transaction from the (tenant, year) shard.
func (s *TransactionService) Delete(ctx context.Context, tenant string, year int, id int64) error {
	store, err := s.registry.Get(ctx, tenant, year)
	if err != nil {
		return err
	}
	if err := store.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction deleted",
		"tenant", tenant, "year", year, "transaction_id", id)
	s.publish(ctx, tenant, year, id, amqp.ActionDeleted)
	return nil
}

// Stats aggregates the (tenant, year) shard.
func (s *TransactionService) Stats(ctx context.Context, tenant string, year int) (core.YearStats, error) {
	store, err := s.registry.Get(ctx, tenant, year)
	if err != nil {
		return core.YearStats{}, err
	}
	return store.YearStats(ctx, year)
}

func (s *TransactionService) requireCategory(ctx context.Context, store *storage.Store, categoryID int64) error {
	ok, err := store.CategoryExists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return core.ErrUnknownCategory
	}
	return nil
}

func (s *TransactionService) publish(ctx context.Context, tenant string, year int, id int64, action string) {
	if s.events == nil {
		return
	}
	event := amqp.NewTransactionEvent(tenant, year, id, action)
	if err := s.events.PublishTransactionEvent(ctx, event); err != nil {
		// The row is already persisted; the event bus is best effort.
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"tenant", tenant, "year", year, "transaction_id", id,
			"action", action, "error", err)
	}
}
