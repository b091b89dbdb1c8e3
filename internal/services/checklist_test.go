package services

import (
	"context"
	"testing"

	"github.com/nordicmaskin/kma/internal/tabular"
	"github.com/nordicmaskin/kma/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTemplates(f fixture) {
	f.backend.Set(tabular.TableTemplates, [][]string{
		{"Template", "Type", "Brand", "Model"},
		{"RCA", "Spormål", "Geismar", "RCA-D-1435"},
		{"rca-dup", "SPORMÅL", "geismar", " rca-d-1435 "},
		{"Empty", "Tool", "X", "Y"},
	})
	f.backend.Set(tabular.TableTemplateItems, [][]string{
		{"Template", "Item", "Instruction"},
		{"RCA", "Visuel kontrol", "Se efter skader"},
		{"rca-dup", "Never", ""},
		{"RCA", "Sporvidde", "Mål 1435 mm"},
		{"RCA", "Overhøjde", ""},
	})
}

func TestResolveMiss(t *testing.T) {
	f := newFixture(t)
	seedTemplates(f)

	cl, err := f.checklists.Resolve(context.Background(), "Type", "Brand", "Model")
	require.NoError(t, err)
	assert.False(t, cl.Found())
	assert.Equal(t, "", cl.Template)
	assert.Empty(t, cl.Items)
	assert.NotNil(t, cl.Items)
}

func TestResolveFirstMatchInOrder(t *testing.T) {
	f := newFixture(t)
	seedTemplates(f)

	cl, err := f.checklists.Resolve(context.Background(), " spormål", "GEISMAR", "rca-d-1435")
	require.NoError(t, err)
	assert.Equal(t, "RCA", cl.Template)

	var names []string
	for _, item := range cl.Items {
		names = append(names, item.Item)
	}
	assert.Equal(t, []string{"Visuel kontrol", "Sporvidde", "Overhøjde"}, names)
	assert.Equal(t, "Mål 1435 mm", cl.Items[1].Instruction)
}

func TestResolveTemplateWithoutItems(t *testing.T) {
	f := newFixture(t)
	seedTemplates(f)

	cl, err := f.checklists.Resolve(context.Background(), "Tool", "X", "Y")
	require.NoError(t, err)
	assert.True(t, cl.Found())
	assert.True(t, cl.Empty())
}

func TestSeedSkipsCoveredClasses(t *testing.T) {
	f := newFixture(t)
	seedTemplates(f)
	ctx := context.Background()

	result, err := f.checklists.Seed(ctx,
		[]types.Template{
			{Name: "RCA-new", Type: "spormål", Brand: "geismar", Model: "RCA-D-1435"},
			{Name: "Torque", Type: "Momentnøgle", Brand: "Stahlwille", Model: "730"},
		},
		[]types.TemplateItem{
			{Template: "RCA-new", Item: "dropped"},
			{Template: "Torque", Item: "Kalibrer 150Nm"},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Templates)
	assert.Equal(t, 1, result.Items)
	assert.Equal(t, []string{"RCA-new"}, result.Skipped)

	cl, err := f.checklists.Resolve(ctx, "Momentnøgle", "Stahlwille", "730")
	require.NoError(t, err)
	require.Len(t, cl.Items, 1)
	assert.Equal(t, "Kalibrer 150Nm", cl.Items[0].Item)
}
