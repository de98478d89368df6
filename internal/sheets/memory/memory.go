// Package memory keeps exported report tables in memory.
package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	ports "geosales/internal/sheets"
)

var _ ports.ReportWriter = (*Store)(nil)

// Store is an in-memory spreadsheet: one table per sheet name.
type Store struct {
	mu     sync.Mutex
	sheets map[string][][]any
	writes int
}

func New() *Store {
	return &Store{sheets: make(map[string][][]any)}
}

// WriteTable replaces the table stored under sheet with a copy of rows.
func (s *Store) WriteTable(_ context.Context, sheet string, rows [][]any) error {
	if strings.TrimSpace(sheet) == "" {
		return errors.New("missing sheet name")
	}
	cp := make([][]any, len(rows))
	for i, r := range rows {
		cp[i] = append([]any(nil), r...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[sheet] = cp
	s.writes++
	return nil
}

// Table returns the rows last written to sheet.
func (s *Store) Table(sheet string) ([][]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.sheets[sheet]
	return rows, ok
}

// Writes returns how many tables have been written.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
