package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wikiracer/application/commands"
	"wikiracer/application/services"
	"wikiracer/domain/config"
	"wikiracer/infrastructure/persistence/memory"
	pkgerrors "wikiracer/pkg/errors"
)

// prewarmProvider serves canned links and backlinks
type prewarmProvider struct {
	links     map[string][]string
	backlinks map[string][]string
	calls     map[string]int
}

func newPrewarmProvider() *prewarmProvider {
	return &prewarmProvider{
		links:     make(map[string][]string),
		backlinks: make(map[string][]string),
		calls:     make(map[string]int),
	}
}

func (p *prewarmProvider) GetLinks(ctx context.Context, title string, limit int) ([]string, error) {
	p.calls[title]++
	return append([]string(nil), p.links[title]...), nil
}

func (p *prewarmProvider) GetBacklinks(ctx context.Context, title string, limit int) ([]string, error) {
	return append([]string(nil), p.backlinks[title]...), nil
}

func newPrewarmHandler(t *testing.T, provider *prewarmProvider) (*PrewarmPageHandler, *memory.PageStore) {
	t.Helper()
	logger := zap.NewNop()
	cfg := config.DefaultDomainConfig()
	store := memory.NewPageStore(logger)
	validator := services.NewPageValidator(provider, cfg, logger)
	handler := NewPrewarmPageHandler(validator, store, provider, memory.NewTitleLocker(), nil, cfg, logger)
	return handler, store
}

func TestPrewarmPageHandler_FillsStore(t *testing.T) {
	provider := newPrewarmProvider()
	provider.links["Дружба"] = []string{"Любов", "Рим"}
	provider.backlinks["Дружба"] = []string{"Приязнь"}

	handler, store := newPrewarmHandler(t, provider)

	require.NoError(t, handler.Handle(context.Background(), commands.PrewarmPageCommand{Title: "Дружба"}))

	record, err := store.Lookup(context.Background(), "Дружба")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, []string{"Любов", "Рим"}, record.Links())
	assert.Equal(t, []string{"Приязнь"}, record.Backlinks())
}

func TestPrewarmPageHandler_CachedTitleIsNoOp(t *testing.T) {
	provider := newPrewarmProvider()
	provider.links["Дружба"] = []string{"Любов"}

	handler, store := newPrewarmHandler(t, provider)

	require.NoError(t, handler.Handle(context.Background(), commands.PrewarmPageCommand{Title: "Дружба"}))
	require.NoError(t, handler.Handle(context.Background(), commands.PrewarmPageCommand{Title: "Дружба"}))

	assert.Equal(t, 1, provider.calls["Дружба"])
	assert.Equal(t, 1, store.Len())
}

func TestPrewarmPageHandler_InvalidTitle(t *testing.T) {
	provider := newPrewarmProvider()

	handler, store := newPrewarmHandler(t, provider)

	err := handler.Handle(context.Background(), commands.PrewarmPageCommand{Title: "Безлюдна"})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsInvalidPage(err))
	assert.Equal(t, 0, store.Len())
}

func TestCleanupExpiredPagesHandler(t *testing.T) {
	logger := zap.NewNop()
	provider := newPrewarmProvider()
	provider.links["Стара"] = []string{"Любов"}

	t.Run("refuses to run without a TTL", func(t *testing.T) {
		cfg := config.DefaultDomainConfig()
		store := memory.NewPageStore(logger)
		handler := NewCleanupExpiredPagesHandler(store, nil, cfg, logger)

		_, err := handler.Handle(context.Background(), commands.CleanupExpiredPagesCommand{})

		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("purges records older than the override", func(t *testing.T) {
		cfg := config.DefaultDomainConfig()
		store := memory.NewPageStore(logger)
		validator := services.NewPageValidator(provider, cfg, logger)
		prewarm := NewPrewarmPageHandler(validator, store, provider, nil, nil, cfg, logger)
		require.NoError(t, prewarm.Handle(context.Background(), commands.PrewarmPageCommand{Title: "Стара"}))

		handler := NewCleanupExpiredPagesHandler(store, nil, cfg, logger)

		// Nothing is old enough yet
		purged, err := handler.Handle(context.Background(), commands.CleanupExpiredPagesCommand{OlderThan: time.Hour})
		require.NoError(t, err)
		assert.Equal(t, 0, purged)

		// A tiny TTL catches the record
		time.Sleep(5 * time.Millisecond)
		purged, err = handler.Handle(context.Background(), commands.CleanupExpiredPagesCommand{OlderThan: time.Millisecond})
		require.NoError(t, err)
		assert.Equal(t, 1, purged)
		assert.Equal(t, 0, store.Len())
	})
}
