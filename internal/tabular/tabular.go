// Package tabular persists whole tables of string cells in a remote
// tabular backend such as a spreadsheet.
//
// Every mutation is read whole table, change it in memory, write whole
// table. There is no locking, no version token and no transaction across
// tables: two sessions doing read-modify-write on the same table can lose
// each other's updates. Expected usage is a single operator.
package tabular

import (
	"context"
	"fmt"
	"strings"
)

// Backend reads and writes raw grids. The first row of a grid is the
// header. WriteValues replaces the whole table.
type Backend interface {
	ReadValues(ctx context.Context, table string) ([][]string, error)
	WriteValues(ctx context.Context, table string, values [][]string) error
}

// Row maps column names to cell values.
type Row map[string]string

// Get returns the value of a column, empty when absent.
func (r Row) Get(column string) string {
	return r[column]
}

// Store wraps a Backend and enforces the declared schema.
type Store struct {
	backend Backend
}

// NewStore constructs a Store for the provided backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// ReadTable returns the rows of a table in storage order. Declared columns
// missing from the backend are filled with empty strings, undeclared
// columns are dropped and fully blank rows are skipped.
func (s *Store) ReadTable(ctx context.Context, table string) ([]Row, error) {
	columns, ok := Columns(table)
	if !ok {
		return nil, fmt.Errorf("unknown table %q", table)
	}

	values, err := s.backend.ReadValues(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	if len(values) == 0 {
		return []Row{}, nil
	}

	index := make(map[string]int, len(values[0]))
	for i, name := range values[0] {
		name = strings.TrimSpace(name)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	rows := make([]Row, 0, len(values)-1)
	for _, record := range values[1:] {
		if blank(record) {
			continue
		}
		row := make(Row, len(columns))
		for _, col := range columns {
			if i, ok := index[col]; ok && i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteTable overwrites a table with the header row followed by rows.
func (s *Store) WriteTable(ctx context.Context, table string, rows []Row) error {
	columns, ok := Columns(table)
	if !ok {
		return fmt.Errorf("unknown table %q", table)
	}

	values := make([][]string, 0, len(rows)+1)
	values = append(values, append([]string(nil), columns...))
	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = row[col]
		}
		values = append(values, record)
	}

	if err := s.backend.WriteValues(ctx, table, values); err != nil {
		return fmt.Errorf("write %s: %w", table, err)
	}
	return nil
}

// AppendRow adds one row at the end of a table.
func (s *Store) AppendRow(ctx context.Context, table string, row Row) error {
	rows, err := s.ReadTable(ctx, table)
	if err != nil {
		return err
	}
	return s.WriteTable(ctx, table, append(rows, row))
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
