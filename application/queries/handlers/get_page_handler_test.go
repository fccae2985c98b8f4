package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wikiracer/application/queries"
	"wikiracer/domain/core/entities"
	"wikiracer/domain/core/valueobjects"
	"wikiracer/infrastructure/persistence/memory"
	pkgerrors "wikiracer/pkg/errors"
)

func TestGetPageHandler(t *testing.T) {
	logger := zap.NewNop()
	store := memory.NewPageStore(logger)
	handler := NewGetPageHandler(store, logger)

	title, err := valueobjects.NewPageTitle("Дружба")
	require.NoError(t, err)
	record, err := entities.NewPageRecord(title, []string{"Любов"}, []string{"Приязнь"})
	require.NoError(t, err)
	require.NoError(t, store.Insert(context.Background(), record))

	t.Run("returns the read model for a cached title", func(t *testing.T) {
		view, err := handler.Handle(context.Background(), queries.GetPageQuery{Title: "Дружба"})

		require.NoError(t, err)
		assert.Equal(t, "Дружба", view.Title)
		assert.Equal(t, []string{"Любов"}, view.Links)
		assert.Equal(t, []string{"Приязнь"}, view.Backlinks)
	})

	t.Run("a miss is not found, lookup is exact", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), queries.GetPageQuery{Title: "дружба"})

		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}
