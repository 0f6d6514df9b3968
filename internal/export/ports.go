// Package export defines the outbound ports for mirroring ledger rows
// into external sinks, keyed by tenant and year so rows from different
// shards stay distinguishable downstream.
package export

import "context"

// Row is one exported ledger entry, flattened for a spreadsheet-like sink.
type Row struct {
	Tenant       string
	Year         int
	ID           int64
	Date         string
	Type         string
	CategoryName string
	Description  string
	Amount       string
	Action       string
}

type (
	// RowWriter appends one row to the sink and returns an opaque
	// reference to where it landed.
	RowWriter interface {
		AppendRow(ctx context.Context, row Row) (rowRef string, err error)
	}

	// RowDeleter tombstones a previously exported transaction.
	RowDeleter interface {
		DeleteRows(ctx context.Context, tenant string, year int, id int64) error
	}
)
