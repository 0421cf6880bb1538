package tabular

import (
	"context"
	"errors"
	"fmt"
)

// Row is one record of a named table, keyed by column name. All values travel
// as strings; callers parse numbers and dates themselves.
type Row map[string]string

// Store is the spreadsheet-style backing store: named tables of ordered rows,
// read in full and replaced in full. There are no partial updates and no
// transactions across tables.
type Store interface {
	// Read returns every row of the named table in order.
	Read(ctx context.Context, table string) ([]Row, error)
	// Write replaces the whole table with the given rows, serialized in the
	// given column order.
	Write(ctx context.Context, table string, columns []string, rows []Row) error
}

// TableNotFoundError reports that a required table does not exist in the
// backing store. It is a configuration problem, not a transient failure.
type TableNotFoundError struct {
	Table string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("required table %q is missing from the store", e.Table)
}

// IsTableNotFound reports whether err wraps a TableNotFoundError.
func IsTableNotFound(err error) bool {
	var notFound *TableNotFoundError
	return errors.As(err, &notFound)
}
