// Package worker consumes shard mutation events and mirrors the affected
// rows into an export sink.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/export"
	"tally/internal/storage"
)

// ExportWorker re-reads mutated rows from their owning shard and pushes
// them to the sink. Deleted rows never reach storage again, so deletes
// go straight to the deleter.
type ExportWorker struct {
	registry *storage.Registry
	writer   export.RowWriter
	deleter  export.RowDeleter
}

func NewExportWorker(registry *storage.Registry, writer export.RowWriter, deleter export.RowDeleter) *ExportWorker {
	return &ExportWorker{
		registry: registry,
		writer:   writer,
		deleter:  deleter,
	}
}

// HandleEvent processes one transaction event. A row that vanished
// between publish and consume is treated as done, not as a failure.
func (w *ExportWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"message_id", event.MessageID,
		"tenant", event.Tenant,
		"year", event.Year,
		"transaction_id", event.TransactionID,
		"action", event.Action)

	switch event.Action {
	case amqp.ActionCreated, amqp.ActionUpdated:
		return w.exportRow(ctx, event)
	case amqp.ActionDeleted:
		return w.deleteRow(ctx, event)
	default:
		slog.WarnContext(ctx, "Skipping event with unknown action",
			"message_id", event.MessageID, "action", event.Action)
		return nil
	}
}

func (w *ExportWorker) exportRow(ctx context.Context, event *amqp.TransactionEvent) error {
	store, err := w.registry.Get(ctx, event.Tenant, event.Year)
	if err != nil {
		return fmt.Errorf("open shard %s/%d: %w", event.Tenant, event.Year, err)
	}

	tx, err := store.GetTransaction(ctx, event.TransactionID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Transaction no longer exists, skipping export",
			"tenant", event.Tenant, "year", event.Year, "transaction_id", event.TransactionID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read transaction %d: %w", event.TransactionID, err)
	}

	rowRef, err := w.writer.AppendRow(ctx, export.Row{
		Tenant:       event.Tenant,
		Year:         event.Year,
		ID:           tx.ID,
		Date:         tx.Date.Format("2006-01-02"),
		Type:         string(tx.Type),
		CategoryName: tx.CategoryName,
		Description:  tx.Description,
		Amount:       tx.Amount.Decimal(),
		Action:       event.Action,
	})
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"tenant", event.Tenant, "year", event.Year,
		"transaction_id", tx.ID, "row_ref", rowRef)
	return nil
}

func (w *ExportWorker) deleteRow(ctx context.Context, event *amqp.TransactionEvent) error {
	if w.deleter == nil {
		slog.WarnContext(ctx, "No row deleter configured, skipping delete",
			"transaction_id", event.TransactionID)
		return nil
	}
	if err := w.deleter.DeleteRows(ctx, event.Tenant, event.Year, event.TransactionID); err != nil {
		return fmt.Errorf("delete exported rows: %w", err)
	}
	slog.InfoContext(ctx, "Removed exported transaction",
		"tenant", event.Tenant, "year", event.Year, "transaction_id", event.TransactionID)
	return nil
}
