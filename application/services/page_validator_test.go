package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wikiracer/domain/config"
	pkgerrors "wikiracer/pkg/errors"
)

// stubProvider serves canned link sets and records how often each title was
// fetched
type stubProvider struct {
	links  map[string][]string
	faults map[string]error
	calls  map[string]int
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		links:  make(map[string][]string),
		faults: make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (p *stubProvider) GetLinks(ctx context.Context, title string, limit int) ([]string, error) {
	p.calls[title]++
	if err, ok := p.faults[title]; ok {
		return nil, err
	}
	return append([]string(nil), p.links[title]...), nil
}

func (p *stubProvider) GetBacklinks(ctx context.Context, title string, limit int) ([]string, error) {
	return nil, nil
}

func TestPageValidator_Validate(t *testing.T) {
	t.Run("returns the fetched links for a valid page", func(t *testing.T) {
		provider := newStubProvider()
		provider.links["Дружба"] = []string{"Любов", "Рим"}
		validator := NewPageValidator(provider, config.DefaultDomainConfig(), zap.NewNop())

		links, err := validator.Validate(context.Background(), "Дружба")

		require.NoError(t, err)
		assert.Equal(t, []string{"Любов", "Рим"}, links)
		assert.Equal(t, 1, provider.calls["Дружба"])
	})

	t.Run("a page without links is invalid", func(t *testing.T) {
		provider := newStubProvider()
		validator := NewPageValidator(provider, config.DefaultDomainConfig(), zap.NewNop())

		_, err := validator.Validate(context.Background(), "Глухий кут")

		require.Error(t, err)
		assert.True(t, pkgerrors.IsInvalidPage(err))
		assert.Equal(t, "Глухий кут", pkgerrors.InvalidPageTitle(err))
	})

	t.Run("an all-separator title is invalid even with links", func(t *testing.T) {
		provider := newStubProvider()
		provider.links["//"] = []string{"Любов"}
		validator := NewPageValidator(provider, config.DefaultDomainConfig(), zap.NewNop())

		_, err := validator.Validate(context.Background(), "//")

		require.Error(t, err)
		assert.True(t, pkgerrors.IsInvalidPage(err))
	})

	t.Run("a provider fault passes through unchanged", func(t *testing.T) {
		provider := newStubProvider()
		provider.faults["Дружба"] = pkgerrors.NewProviderFaultError("link source unreachable", nil)
		validator := NewPageValidator(provider, config.DefaultDomainConfig(), zap.NewNop())

		_, err := validator.Validate(context.Background(), "Дружба")

		require.Error(t, err)
		assert.True(t, pkgerrors.IsProviderFault(err))
		assert.False(t, pkgerrors.IsInvalidPage(err))
	})

	t.Run("each call performs exactly one fetch", func(t *testing.T) {
		provider := newStubProvider()
		provider.links["Дружба"] = []string{"Любов"}
		validator := NewPageValidator(provider, config.DefaultDomainConfig(), zap.NewNop())

		for i := 0; i < 3; i++ {
			_, err := validator.Validate(context.Background(), "Дружба")
			require.NoError(t, err)
		}

		assert.Equal(t, 3, provider.calls["Дружба"])
	})
}
