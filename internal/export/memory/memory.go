// Package memory is an in-process export sink for tests and local setups
// without Sheets credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"tally/internal/export"
)

type Store struct {
	mu   sync.Mutex
	rows []export.Row
}

var (
	_ export.RowWriter  = (*Store)(nil)
	_ export.RowDeleter = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// AppendRow stores the row and returns a synthetic row reference.
func (s *Store) AppendRow(_ context.Context, row export.Row) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// DeleteRows drops every stored row for the given transaction.
func (s *Store) DeleteRows(_ context.Context, tenant string, year int, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, row := range s.rows {
		if row.Tenant == tenant && row.Year == year && row.ID == id {
			continue
		}
		kept = append(kept, row)
	}
	s.rows = kept
	return nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []export.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]export.Row(nil), s.rows...)
}
