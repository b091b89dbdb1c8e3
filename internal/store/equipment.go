package store

import (
	"context"

	"github.com/nordicmaskin/kma/internal/normalize"
	"github.com/nordicmaskin/kma/internal/tabular"
	"github.com/nordicmaskin/kma/types"
)

// EquipmentRepository handles persistence for the Equipment table.
type EquipmentRepository struct {
	tables *tabular.Store
}

func NewEquipmentRepository(tables *tabular.Store) *EquipmentRepository {
	return &EquipmentRepository{tables: tables}
}

// List returns all equipment in storage order.
func (r *EquipmentRepository) List(ctx context.Context) ([]types.Equipment, error) {
	rows, err := r.tables.ReadTable(ctx, tabular.TableEquipment)
	if err != nil {
		return nil, err
	}
	items := make([]types.Equipment, 0, len(rows))
	for _, row := range rows {
		items = append(items, equipmentFromRow(row))
	}
	return items, nil
}

// Upsert updates the Notes of the first unit with the same normalized
// identity, or appends eq as a new row. It reports whether a row was
// created.
func (r *EquipmentRepository) Upsert(ctx context.Context, eq types.Equipment) (bool, error) {
	rows, err := r.tables.ReadTable(ctx, tabular.TableEquipment)
	if err != nil {
		return false, err
	}

	created := true
	for _, row := range rows {
		if normalize.TupleEqual(equipmentFromRow(row).Identity(), eq.Identity()) {
			row["Notes"] = eq.Notes
			created = false
			break
		}
	}
	if created {
		rows = append(rows, equipmentToRow(eq))
	}

	if err := r.tables.WriteTable(ctx, tabular.TableEquipment, rows); err != nil {
		return false, err
	}
	return created, nil
}

func equipmentFromRow(row tabular.Row) types.Equipment {
	return types.Equipment{
		Type:   row.Get("Type"),
		Brand:  row.Get("Brand"),
		Model:  row.Get("Model"),
		Serial: row.Get("Serial"),
		Notes:  row.Get("Notes"),
	}
}

func equipmentToRow(eq types.Equipment) tabular.Row {
	return tabular.Row{
		"Type":   eq.Type,
		"Brand":  eq.Brand,
		"Model":  eq.Model,
		"Serial": eq.Serial,
		"Notes":  eq.Notes,
	}
}
