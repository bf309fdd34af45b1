// Package memory is an in-process mirror used by tests and by workers
// running without spreadsheet credentials.
package memory

import (
	"context"
	"slices"
	"sync"

	"ledgerly/internal/codec"
	"ledgerly/internal/core"
	"ledgerly/internal/sheets"
)

var (
	_ sheets.TransactionMirror = (*Store)(nil)
	_ sheets.CategoryMirror    = (*Store)(nil)
)

// Store records the last table written to it.
type Store struct {
	mu         sync.Mutex
	rows       [][]string
	categories [][]string
	writes     int
	err        error
}

func New() *Store {
	return &Store{}
}

// FailWith makes every following write return err; nil restores success.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Store) ReplaceTransactions(_ context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.rows = codec.Rows(txs)
	s.writes++
	return nil
}

func (s *Store) ReplaceCategories(_ context.Context, cats []core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.categories = sheets.CategoryRows(cats)
	s.writes++
	return nil
}

// Rows returns a copy of the last transaction table, header included.
func (s *Store) Rows() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = slices.Clone(r)
	}
	return out
}

// CategoryRows returns a copy of the last category table.
func (s *Store) CategoryRows() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.categories))
	for i, r := range s.categories {
		out[i] = slices.Clone(r)
	}
	return out
}

// Writes counts successful writes of either table.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
