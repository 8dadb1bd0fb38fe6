package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"pantrygo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	// A file-backed database per test: in-memory SQLite gives every pooled
	// connection its own empty database.
	s, err := Open(filepath.Join(t.TempDir(), "pantry-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateDerivesLowercaseAndAssignsID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item := models.Item{Name: "Milk", Count: 2, Date: "2030-01-01"}
	require.NoError(t, s.Create(ctx, &item))

	assert.NotEmpty(t, item.ID)

	items, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, strings.ToLower(items[0].Name), items[0].NameLowercase)
	assert.Equal(t, 2, items[0].Count)
	assert.Equal(t, "2030-01-01", items[0].Date)
}

func TestUpdateOverwritesAllFieldsInPlace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item := models.Item{Name: "Milk", Count: 2, Date: "2030-01-01"}
	require.NoError(t, s.Create(ctx, &item))

	update := models.Item{Name: "Oat Milk", Count: 5, Date: "2031-06-15"}
	require.NoError(t, s.Update(ctx, item.ID, update))

	items, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
	assert.Equal(t, "Oat Milk", items[0].Name)
	assert.Equal(t, "oat milk", items[0].NameLowercase)
	assert.Equal(t, 5, items[0].Count)
}

func TestUpdateUnknownIDPropagatesError(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(context.Background(), "does-not-exist", models.Item{Name: "X"})
	assert.Error(t, err)
}

func TestDeleteRemovesExactlyThatItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	milk := models.Item{Name: "Milk", Count: 1, Date: "2030-01-01"}
	eggs := models.Item{Name: "Eggs", Count: 12, Date: "2030-01-01"}
	require.NoError(t, s.Create(ctx, &milk))
	require.NoError(t, s.Create(ctx, &eggs))

	require.NoError(t, s.Delete(ctx, milk.ID))

	items, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, eggs.ID, items[0].ID)

	// Deleting a nonexistent id is harmless.
	assert.NoError(t, s.Delete(ctx, milk.ID))
}

func TestFindByExactLowercaseNameIsEqualityNotSubstring(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	milk := models.Item{Name: "Milk", Count: 1, Date: "2030-01-01"}
	chocolate := models.Item{Name: "Milk Chocolate", Count: 3, Date: "2030-01-01"}
	require.NoError(t, s.Create(ctx, &milk))
	require.NoError(t, s.Create(ctx, &chocolate))

	found, err := s.FindByExactLowercaseName(ctx, "MILK")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Milk", found[0].Name)

	none, err := s.FindByExactLowercaseName(ctx, "choc")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStoreMirrorsGormStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	item := models.Item{Name: "Flour", Count: 1, Date: "2030-01-01"}
	require.NoError(t, m.Create(ctx, &item))
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "flour", item.NameLowercase)

	found, err := m.FindByExactLowercaseName(ctx, "Flour")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, m.Update(ctx, item.ID, models.Item{Name: "Bread Flour", Count: 2, Date: "2030-02-01"}))
	items, err := m.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "bread flour", items[0].NameLowercase)

	require.NoError(t, m.Delete(ctx, item.ID))
	items, err = m.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
