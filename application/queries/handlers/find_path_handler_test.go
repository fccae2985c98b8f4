package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wikiracer/application/queries"
	"wikiracer/application/services"
	"wikiracer/domain/config"
	"wikiracer/domain/core/entities"
	"wikiracer/domain/core/valueobjects"
	"wikiracer/domain/events"
	"wikiracer/infrastructure/persistence/memory"
	pkgerrors "wikiracer/pkg/errors"
)

// fakeProvider serves canned link sets and counts fetches per title
type fakeProvider struct {
	links     map[string][]string
	backlinks map[string][]string
	faults    map[string]error
	calls     map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		links:     make(map[string][]string),
		backlinks: make(map[string][]string),
		faults:    make(map[string]error),
		calls:     make(map[string]int),
	}
}

func (p *fakeProvider) GetLinks(ctx context.Context, title string, limit int) ([]string, error) {
	p.calls[title]++
	if err, ok := p.faults[title]; ok {
		return nil, err
	}
	links := p.links[title]
	if len(links) > limit {
		links = links[:limit]
	}
	return append([]string(nil), links...), nil
}

func (p *fakeProvider) GetBacklinks(ctx context.Context, title string, limit int) ([]string, error) {
	return append([]string(nil), p.backlinks[title]...), nil
}

// capturingPublisher collects published events
type capturingPublisher struct {
	published []events.DomainEvent
}

func (c *capturingPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	c.published = append(c.published, event)
	return nil
}

func (c *capturingPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	c.published = append(c.published, batch...)
	return nil
}

func newEngine(t *testing.T, provider *fakeProvider) (*FindPathHandler, *memory.PageStore, *capturingPublisher) {
	t.Helper()
	logger := zap.NewNop()
	cfg := config.DefaultDomainConfig()
	store := memory.NewPageStore(logger)
	publisher := &capturingPublisher{}
	validator := services.NewPageValidator(provider, cfg, logger)
	handler := NewFindPathHandler(validator, store, provider, publisher, nil, cfg, logger)
	return handler, store, publisher
}

func TestFindPathHandler_Found(t *testing.T) {
	provider := newFakeProvider()
	provider.links["Дружба"] = []string{"Любов", "Рим"}
	provider.links["Любов"] = []string{"Серце"}
	provider.links["Рим"] = []string{"Італія", "Китай"}
	provider.links["Китай"] = []string{"Азія"}

	handler, store, publisher := newEngine(t, provider)

	result, err := handler.Handle(context.Background(), queries.FindPathQuery{Start: "Дружба", Finish: "Китай"})

	require.NoError(t, err)
	assert.Equal(t, queries.OutcomeFound, result.Outcome)
	assert.Equal(t, []string{"Дружба", "Рим", "Китай"}, result.Path)

	// Both examined candidates were cached on the way
	record, err := store.Lookup(context.Background(), "Рим")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, []string{"Італія", "Китай"}, record.Links())

	// Creation events and the path event were published
	var foundEvent bool
	for _, event := range publisher.published {
		if event.EventType() == "path.found" {
			foundEvent = true
		}
	}
	assert.True(t, foundEvent)
}

func TestFindPathHandler_FirstMatchWins(t *testing.T) {
	provider := newFakeProvider()
	provider.links["Дружба"] = []string{"Любов", "Рим"}
	provider.links["Любов"] = []string{"Китай"}
	provider.links["Рим"] = []string{"Китай"}
	provider.links["Китай"] = []string{"Азія"}

	handler, _, _ := newEngine(t, provider)

	result, err := handler.Handle(context.Background(), queries.FindPathQuery{Start: "Дружба", Finish: "Китай"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Дружба", "Любов", "Китай"}, result.Path)
	// The walk stopped at the first match
	assert.Zero(t, provider.calls["Рим"])
}

func TestFindPathHandler_InvalidStart(t *testing.T) {
	provider := newFakeProvider()
	provider.links["Китай"] = []string{"Азія"}

	handler, _, _ := newEngine(t, provider)

	result, err := handler.Handle(context.Background(), queries.FindPathQuery{Start: "Безлюдна", Finish: "Китай"})

	require.NoError(t, err)
	assert.Equal(t, queries.OutcomeInvalid, result.Outcome)
	assert.Equal(t, "Безлюдна", result.InvalidTitle)
	assert.Empty(t, result.Path)
}

func TestFindPathHandler_InvalidFinish(t *testing.T) {
	provider := newFakeProvider()
	provider.links["Дружба"] = []string{"Любов"}

	handler, _, _ := newEngine(t, provider)

	result, err := handler.Handle(context.Background(), queries.FindPathQuery{Start: "Дружба", Finish: "//"})

	require.NoError(t, err)
	assert.Equal(t, queries.OutcomeInvalid, result.Outcome)
	assert.Equal(t, "//", result.InvalidTitle)
}

func TestFindPathHandler_SkipsInvalidCandidate(t *testing.T) {
	provider := newFakeProvider()
	provider.links["Дружба"] = []string{"Глухий кут", "Рим"}
	// "Глухий кут" has no outbound links and must be skipped, not fatal
	provider.links["Рим"] = []string{"Китай"}
	provider.links["Китай"] = []string{"Азія"}

	handler, store, _ := newEngine(t, provider)

	result, err := handler.Handle(context.Background(), queries.FindPathQuery{Start: "Дружба", Finish: "Китай"})

	require.NoError(t, err)
	assert.Equal(t, queries.OutcomeFound, result.Outcome)
	assert.Equal(t, []string{"Дружба", "Рим", "Китай"}, result.Path)

	// Invalid candidates are never cached
	record, err := store.Lookup(context.Background(), "Глухий кут")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestFindPathHandler_NotFound(t *testing.T) {
	provider := newFakeProvider()
	provider.links["Дружба"] = []string{"Любов"}
	provider.links["Любов"] = []string{"Серце"}
	provider.links["Китай"] = []string{"Азія"}

	handler, _, _ := newEngine(t, provider)

	result, err := handler.Handle(context.Background(), queries.FindPathQuery{Start: "Дружба", Finish: "Китай"})

	require.NoError(t, err)
	assert.Equal(t, queries.OutcomeNotFound, result.Outcome)
	assert.NotNil(t, result.Path)
	assert.Empty(t, result.Path)
}

func TestFindPathHandler_ProviderFaultAborts(t *testing.T) {
	provider := newFakeProvider()
	provider.links["Дружба"] = []string{"Рим"}
	provider.links["Китай"] = []string{"Азія"}
	provider.faults["Рим"] = pkgerrors.NewProviderFaultError("link source unreachable", nil)

	handler, _, _ := newEngine(t, provider)

	result, err := handler.Handle(context.Background(), queries.FindPathQuery{Start: "Дружба", Finish: "Китай"})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsProviderFault(err))
	assert.Nil(t, result)
}

func TestFindPathHandler_CacheHitSkipsProvider(t *testing.T) {
	provider := newFakeProvider()
	provider.links["Дружба"] = []string{"Рим"}
	provider.links["Китай"] = []string{"Азія"}
	// The provider would fault on "Рим"; only the cache can resolve it
	provider.faults["Рим"] = pkgerrors.NewProviderFaultError("link source unreachable", nil)

	handler, store, _ := newEngine(t, provider)

	title, err := valueobjects.NewPageTitle("Рим")
	require.NoError(t, err)
	record, err := entities.NewPageRecord(title, []string{"Італія", "Китай"}, nil)
	require.NoError(t, err)
	require.NoError(t, store.Insert(context.Background(), record))

	result, err := handler.Handle(context.Background(), queries.FindPathQuery{Start: "Дружба", Finish: "Китай"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Дружба", "Рим", "Китай"}, result.Path)
	assert.Zero(t, provider.calls["Рим"])
}

func TestFindPathHandler_RepeatedSearchUsesCache(t *testing.T) {
	provider := newFakeProvider()
	provider.links["Дружба"] = []string{"Рим"}
	provider.links["Рим"] = []string{"Китай"}
	provider.links["Китай"] = []string{"Азія"}

	handler, store, _ := newEngine(t, provider)

	for i := 0; i < 2; i++ {
		result, err := handler.Handle(context.Background(), queries.FindPathQuery{Start: "Дружба", Finish: "Китай"})
		require.NoError(t, err)
		assert.Equal(t, queries.OutcomeFound, result.Outcome)
	}

	// Endpoint validation fetches every run; the candidate was fetched once
	assert.Equal(t, 2, provider.calls["Дружба"])
	assert.Equal(t, 2, provider.calls["Китай"])
	assert.Equal(t, 1, provider.calls["Рим"])
	assert.Equal(t, 1, store.Len())
}
