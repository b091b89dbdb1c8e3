package tabular

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

// PostgresBackend keeps every table as ordered text arrays in the
// tabular_rows table. Unlike the spreadsheet, a write is one transaction.
type PostgresBackend struct {
	db *sql.DB
}

func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (p *PostgresBackend) ReadValues(ctx context.Context, table string) ([][]string, error) {
	const query = `
		SELECT cells
		FROM tabular_rows
		WHERE table_name = $1
		ORDER BY position`
	rows, err := p.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values [][]string
	for rows.Next() {
		var cells []string
		if err := rows.Scan(pq.Array(&cells)); err != nil {
			return nil, err
		}
		values = append(values, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

func (p *PostgresBackend) WriteValues(ctx context.Context, table string, values [][]string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tabular_rows WHERE table_name = $1`, table); err != nil {
		return err
	}

	const insert = `
		INSERT INTO tabular_rows (table_name, position, cells)
		VALUES ($1, $2, $3)`
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, record := range values {
		if _, err := stmt.ExecContext(ctx, table, i, pq.Array(record)); err != nil {
			return err
		}
	}
	return tx.Commit()
}
