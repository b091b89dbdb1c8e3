package tabular

import (
	"context"
	"errors"
	"strings"

	"github.com/nordicmaskin/kma/config"
	"github.com/nordicmaskin/kma/internal/normalize"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsBackend stores each table in a worksheet of one Google spreadsheet.
// A write is a clear followed by an update, so a concurrent reader can
// observe an empty worksheet in between.
type SheetsBackend struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsBackend constructs a Sheets client from config.
func NewSheetsBackend(ctx context.Context, cfg config.SheetsConfig) (*SheetsBackend, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("sheets spreadsheet id is required")
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if strings.TrimSpace(cfg.CredentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &SheetsBackend{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
	}, nil
}

// ReadValues fetches every populated cell of the worksheet.
func (s *SheetsBackend) ReadValues(ctx context.Context, table string) ([][]string, error) {
	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, sheetRange(table)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return gridFromValues(resp.Values), nil
}

// WriteValues clears the worksheet and writes values starting at A1.
// Cells are sent RAW so strings such as "001" are not reinterpreted.
func (s *SheetsBackend) WriteValues(ctx context.Context, table string, values [][]string) error {
	if _, err := s.service.Spreadsheets.Values.
		Clear(s.spreadsheetID, sheetRange(table), &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do(); err != nil {
		return err
	}

	_, err := s.service.Spreadsheets.Values.
		Update(s.spreadsheetID, sheetRange(table)+"!A1", &sheets.ValueRange{Values: valuesFromGrid(values)}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// SpreadsheetID returns the configured spreadsheet id.
func (s *SheetsBackend) SpreadsheetID() string {
	return s.spreadsheetID
}

func sheetRange(table string) string {
	return "'" + strings.ReplaceAll(table, "'", "''") + "'"
}

func gridFromValues(values [][]interface{}) [][]string {
	grid := make([][]string, len(values))
	for i, record := range values {
		grid[i] = make([]string, len(record))
		for j, cell := range record {
			grid[i][j] = normalize.Cell(cell)
		}
	}
	return grid
}

func valuesFromGrid(grid [][]string) [][]interface{} {
	values := make([][]interface{}, len(grid))
	for i, record := range grid {
		values[i] = make([]interface{}, len(record))
		for j, cell := range record {
			values[i][j] = cell
		}
	}
	return values
}
