package tabular

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// PostgresStore keeps the spreadsheet table contract in a relational database:
// a registry of known tables plus their rows as ordered JSONB documents. A
// Write replaces every row of one table inside a single transaction, which is
// as close to the "full-table overwrite" semantics as the contract asks for.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Read(ctx context.Context, table string) ([]Row, error) {
	var registered string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM tabular_table WHERE name = $1`, table).Scan(&registered)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &TableNotFoundError{Table: table}
	}
	if err != nil {
		err := fmt.Errorf("could not look up table %q: %w", table, err)
		log.Error(err)
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM tabular_row WHERE table_name = $1 ORDER BY position`, table)
	if err != nil {
		err := fmt.Errorf("could not query rows of table %q: %w", table, err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	result := make([]Row, 0, 16)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		var row Row
		if err := json.Unmarshal(data, &row); err != nil {
			err := fmt.Errorf("could not decode row of table %q: %w", table, err)
			log.Error(err)
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (s *PostgresStore) Write(ctx context.Context, table string, columns []string, rows []Row) error {
	columnsJson, err := json.Marshal(columns)
	if err != nil {
		return fmt.Errorf("could not encode columns: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO tabular_table (name, columns) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET columns = EXCLUDED.columns`, table, columnsJson)
	if err != nil {
		return fmt.Errorf("could not register table %q: %w", table, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tabular_row WHERE table_name = $1`, table); err != nil {
		return fmt.Errorf("could not clear table %q: %w", table, err)
	}

	for position, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("could not encode row %d: %w", position, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO tabular_row (table_name, position, data) VALUES ($1, $2, $3)`,
			table, position, data)
		if err != nil {
			return fmt.Errorf("could not insert row %d of table %q: %w", position, table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
