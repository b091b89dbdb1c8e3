package store

import (
	"context"
	"testing"

	"github.com/nordicmaskin/kma/internal/tabular"
	"github.com/nordicmaskin/kma/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTables(t *testing.T) (*tabular.MemoryBackend, *tabular.Store) {
	t.Helper()
	backend := tabular.NewMemoryBackend()
	return backend, tabular.NewStore(backend)
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	_, tables := newTables(t)
	repo := NewUserRepository(tables)
	ctx := context.Background()

	_, err := repo.Create(ctx, types.User{FullName: "Alice Jensen", PasswordHash: "h", Email: "a@example.com", IsActive: true})
	require.NoError(t, err)

	user, err := repo.GetByName(ctx, "  alice JENSEN ")
	require.NoError(t, err)
	assert.Equal(t, "Alice Jensen", user.FullName)
	assert.True(t, user.IsActive)

	_, err = repo.GetByName(ctx, "Bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryIsActiveParsing(t *testing.T) {
	backend, tables := newTables(t)
	backend.Set(tabular.TableUsers, [][]string{
		{"FullName", "PasswordHash", "Email", "IsActive"},
		{"A", "", "", "TRUE"},
		{"B", "", "", "False"},
		{"C", "", "", ""},
		{"D", "", "", "1"},
	})
	repo := NewUserRepository(tables)
	ctx := context.Background()

	for name, want := range map[string]bool{"A": true, "B": false, "C": false, "D": true} {
		user, err := repo.GetByName(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, want, user.IsActive, name)
	}
}

func TestEquipmentUpsert(t *testing.T) {
	backend, tables := newTables(t)
	repo := NewEquipmentRepository(tables)
	ctx := context.Background()

	created, err := repo.Upsert(ctx, types.Equipment{Type: "Tool", Brand: "X", Model: "Y", Serial: "001", Notes: "a"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Upsert(ctx, types.Equipment{Type: "tool", Brand: " x ", Model: "y", Serial: "001", Notes: "b"})
	require.NoError(t, err)
	assert.False(t, created)

	values, err := backend.ReadValues(ctx, tabular.TableEquipment)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Type", "Brand", "Model", "Serial", "Notes"},
		{"Tool", "X", "Y", "001", "b"},
	}, values)
}

func TestTemplateRepository(t *testing.T) {
	_, tables := newTables(t)
	repo := NewTemplateRepository(tables)
	ctx := context.Background()

	err := repo.AppendTemplates(ctx,
		[]types.Template{{Name: "RCA", Type: "Spormål", Brand: "Geismar", Model: "RCA-D-1435"}},
		[]types.TemplateItem{
			{Template: "RCA", Item: "Visuel kontrol"},
			{Template: "other", Item: "skip"},
			{Template: "RCA", Item: "Måling"},
		},
	)
	require.NoError(t, err)

	templates, err := repo.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "RCA", templates[0].Name)

	items, err := repo.ListItems(ctx, "RCA")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Visuel kontrol", items[0].Item)
	assert.Equal(t, "Måling", items[1].Item)

	items, err = repo.ListItems(ctx, "rca")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAuditRepository(t *testing.T) {
	_, tables := newTables(t)
	repo := NewAuditRepository(tables)
	ctx := context.Background()

	require.NoError(t, repo.AppendInspection(ctx, types.InspectionRecord{Timestamp: "2026-10-15 09:30", User: "Alice", Serial: "007"}))
	require.NoError(t, repo.AppendLogin(ctx, types.LoginEvent{Timestamp: "2026-10-15 09:30", User: "Alice", Equipment: "a/b/c/007"}))

	inspections, err := repo.ListInspections(ctx)
	require.NoError(t, err)
	require.Len(t, inspections, 1)
	assert.Equal(t, "007", inspections[0].Serial)

	logins, err := repo.ListLogins(ctx)
	require.NoError(t, err)
	require.Len(t, logins, 1)
	assert.Equal(t, "a/b/c/007", logins[0].Equipment)
}
