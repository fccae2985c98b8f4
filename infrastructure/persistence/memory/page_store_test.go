package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wikiracer/domain/core/entities"
	"wikiracer/domain/core/valueobjects"
)

func newRecord(t *testing.T, title string, links ...string) *entities.PageRecord {
	t.Helper()
	titleVO, err := valueobjects.NewPageTitle(title)
	require.NoError(t, err)
	record, err := entities.NewPageRecord(titleVO, links, nil)
	require.NoError(t, err)
	return record
}

func TestPageStore_LookupMiss(t *testing.T) {
	store := NewPageStore(zap.NewNop())

	record, err := store.Lookup(context.Background(), "Невідома")

	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestPageStore_InsertAndLookup(t *testing.T) {
	store := NewPageStore(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, newRecord(t, "Дружба", "Любов", "Рим")))

	record, err := store.Lookup(ctx, "Дружба")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Дружба", record.Title().String())
	assert.Equal(t, []string{"Любов", "Рим"}, record.Links())
}

func TestPageStore_InsertFirstWriteWins(t *testing.T) {
	store := NewPageStore(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, newRecord(t, "Дружба", "Любов")))
	require.NoError(t, store.Insert(ctx, newRecord(t, "Дружба", "Зовсім", "Інше")))

	record, err := store.Lookup(ctx, "Дружба")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, []string{"Любов"}, record.Links())
	assert.Equal(t, 1, store.Len())
}

func TestPageStore_AddChild(t *testing.T) {
	store := NewPageStore(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, newRecord(t, "Дружба", "Любов")))

	require.NoError(t, store.AddChild(ctx, "Дружба", "Рим"))
	require.NoError(t, store.AddChild(ctx, "Дружба", "Рим"))
	require.NoError(t, store.AddChild(ctx, "Відсутня", "Рим"))

	record, err := store.Lookup(ctx, "Дружба")
	require.NoError(t, err)
	assert.Equal(t, []string{"Рим"}, record.Children())
}

func TestPageStore_DeleteExpired(t *testing.T) {
	store := NewPageStore(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, newRecord(t, "Стара", "Любов")))
	require.NoError(t, store.Insert(ctx, newRecord(t, "Свіжа", "Рим")))

	purged, err := store.DeleteExpired(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, purged)
	assert.Equal(t, 2, store.Len())

	purged, err = store.DeleteExpired(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, purged)
	assert.Equal(t, 0, store.Len())
}
