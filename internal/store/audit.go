package store

import (
	"context"

	"github.com/nordicmaskin/kma/internal/tabular"
	"github.com/nordicmaskin/kma/types"
)

// AuditRepository appends rows to the Inspections and Logins tables.
// The two appends are independent; there is no transaction across them.
type AuditRepository struct {
	tables *tabular.Store
}

func NewAuditRepository(tables *tabular.Store) *AuditRepository {
	return &AuditRepository{tables: tables}
}

func (r *AuditRepository) AppendInspection(ctx context.Context, rec types.InspectionRecord) error {
	return r.tables.AppendRow(ctx, tabular.TableInspections, tabular.Row{
		"Timestamp":   rec.Timestamp,
		"User":        rec.User,
		"Action":      rec.Action,
		"Type":        rec.Type,
		"Brand":       rec.Brand,
		"Model":       rec.Model,
		"Serial":      rec.Serial,
		"ResultsJSON": rec.ResultsJSON,
		"Comment":     rec.Comment,
		"NextDate":    rec.NextDate,
		"PdfPath":     rec.PdfPath,
		"Recipients":  rec.Recipients,
	})
}

func (r *AuditRepository) AppendLogin(ctx context.Context, ev types.LoginEvent) error {
	return r.tables.AppendRow(ctx, tabular.TableLogins, tabular.Row{
		"Timestamp": ev.Timestamp,
		"User":      ev.User,
		"Action":    ev.Action,
		"Equipment": ev.Equipment,
		"NextDate":  ev.NextDate,
	})
}

// ListInspections returns the Inspections table in storage order.
func (r *AuditRepository) ListInspections(ctx context.Context) ([]types.InspectionRecord, error) {
	rows, err := r.tables.ReadTable(ctx, tabular.TableInspections)
	if err != nil {
		return nil, err
	}
	records := make([]types.InspectionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, types.InspectionRecord{
			Timestamp:   row.Get("Timestamp"),
			User:        row.Get("User"),
			Action:      row.Get("Action"),
			Type:        row.Get("Type"),
			Brand:       row.Get("Brand"),
			Model:       row.Get("Model"),
			Serial:      row.Get("Serial"),
			ResultsJSON: row.Get("ResultsJSON"),
			Comment:     row.Get("Comment"),
			NextDate:    row.Get("NextDate"),
			PdfPath:     row.Get("PdfPath"),
			Recipients:  row.Get("Recipients"),
		})
	}
	return records, nil
}

// ListLogins returns the Logins table in storage order.
func (r *AuditRepository) ListLogins(ctx context.Context) ([]types.LoginEvent, error) {
	rows, err := r.tables.ReadTable(ctx, tabular.TableLogins)
	if err != nil {
		return nil, err
	}
	events := make([]types.LoginEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, types.LoginEvent{
			Timestamp: row.Get("Timestamp"),
			User:      row.Get("User"),
			Action:    row.Get("Action"),
			Equipment: row.Get("Equipment"),
			NextDate:  row.Get("NextDate"),
		})
	}
	return events, nil
}
