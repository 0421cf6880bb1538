package tabular

import (
	"context"
	"sync"
)

// StubStore is an in-memory Store for tests.
type StubStore struct {
	mu      sync.RWMutex
	tables  map[string][]Row
	columns map[string][]string

	// FailWith, when set, is returned by every Read and Write.
	FailWith error
	writes   int
}

func NewStubStore() *StubStore {
	return &StubStore{
		tables:  make(map[string][]Row),
		columns: make(map[string][]string),
	}
}

// Seed creates or replaces a table without counting as a Write.
func (s *StubStore) Seed(table string, columns []string, rows []Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns[table] = append([]string(nil), columns...)
	s.tables[table] = copyRows(rows)
}

func (s *StubStore) Read(ctx context.Context, table string) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}
	rows, ok := s.tables[table]
	if !ok {
		return nil, &TableNotFoundError{Table: table}
	}
	return copyRows(rows), nil
}

func (s *StubStore) Write(ctx context.Context, table string, columns []string, rows []Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}
	s.columns[table] = append([]string(nil), columns...)
	s.tables[table] = copyRows(rows)
	s.writes++
	return nil
}

// WriteCount returns how many times Write succeeded. Useful to assert that a
// failed validation never reached the store.
func (s *StubStore) WriteCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Columns returns the column order last written for a table.
func (s *StubStore) Columns(table string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.columns[table]...)
}

func copyRows(rows []Row) []Row {
	result := make([]Row, 0, len(rows))
	for _, row := range rows {
		copied := Row{}
		for k, v := range row {
			copied[k] = v
		}
		result = append(result, copied)
	}
	return result
}
