package tabular

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTableCompletesDeclaredColumns(t *testing.T) {
	backend := NewMemoryBackend()
	backend.Set(TableEquipment, [][]string{
		{"Serial", "Type", "Extra"},
		{"001", "Tool", "ignored"},
		{"", "", ""},
		{"002"},
	})
	store := NewStore(backend)

	rows, err := store.ReadTable(context.Background(), TableEquipment)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, Row{"Type": "Tool", "Brand": "", "Model": "", "Serial": "001", "Notes": ""}, rows[0])
	assert.Equal(t, Row{"Type": "", "Brand": "", "Model": "", "Serial": "002", "Notes": ""}, rows[1])
}

func TestReadTableEmptySheet(t *testing.T) {
	store := NewStore(NewMemoryBackend())

	rows, err := store.ReadTable(context.Background(), TableLogins)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadTableUnknown(t *testing.T) {
	store := NewStore(NewMemoryBackend())

	_, err := store.ReadTable(context.Background(), "Nope")
	assert.Error(t, err)
}

func TestWriteTableWritesHeaderAndStrings(t *testing.T) {
	backend := NewMemoryBackend()
	store := NewStore(backend)
	ctx := context.Background()

	err := store.WriteTable(ctx, TableTemplates, []Row{
		{"Template": "T1", "Type": "Spormål", "Brand": "Geismar", "Model": "RCA", "Unknown": "x"},
	})
	require.NoError(t, err)

	values, err := backend.ReadValues(ctx, TableTemplates)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Template", "Type", "Brand", "Model"},
		{"T1", "Spormål", "Geismar", "RCA"},
	}, values)
}

func TestAppendRowPreservesOrder(t *testing.T) {
	backend := NewMemoryBackend()
	store := NewStore(backend)
	ctx := context.Background()

	require.NoError(t, store.AppendRow(ctx, TableLogins, Row{"User": "a"}))
	require.NoError(t, store.AppendRow(ctx, TableLogins, Row{"User": "b"}))

	rows, err := store.ReadTable(ctx, TableLogins)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Get("User"))
	assert.Equal(t, "b", rows[1].Get("User"))
	assert.Equal(t, 2, backend.Writes(TableLogins))
}

type failingBackend struct{ err error }

func (f failingBackend) ReadValues(context.Context, string) ([][]string, error) {
	return nil, f.err
}

func (f failingBackend) WriteValues(context.Context, string, [][]string) error {
	return f.err
}

func TestBackendErrorsPropagate(t *testing.T) {
	boom := errors.New("quota exceeded")
	store := NewStore(failingBackend{err: boom})
	ctx := context.Background()

	_, err := store.ReadTable(ctx, TableUsers)
	assert.ErrorIs(t, err, boom)

	err = store.WriteTable(ctx, TableUsers, nil)
	assert.ErrorIs(t, err, boom)

	err = store.AppendRow(ctx, TableUsers, Row{})
	assert.ErrorIs(t, err, boom)
}

func TestSheetsGridConversion(t *testing.T) {
	grid := gridFromValues([][]interface{}{
		{"Type", "Serial"},
		{"Spormål", float64(123456789)},
		{"Tool", "001"},
	})
	assert.Equal(t, [][]string{
		{"Type", "Serial"},
		{"Spormål", "123456789"},
		{"Tool", "001"},
	}, grid)

	values := valuesFromGrid([][]string{{"Serial"}, {"001"}})
	assert.Equal(t, [][]interface{}{{"Serial"}, {"001"}}, values)
	assert.Equal(t, "'Users'", sheetRange("Users"))
	assert.Equal(t, "'It''s'", sheetRange("It's"))
}
