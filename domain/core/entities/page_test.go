package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikiracer/domain/core/valueobjects"
)

func mustTitle(t *testing.T, s string) valueobjects.PageTitle {
	t.Helper()
	title, err := valueobjects.NewPageTitle(s)
	require.NoError(t, err)
	return title
}

func TestNewPageRecord(t *testing.T) {
	t.Run("creates a record and emits a creation event", func(t *testing.T) {
		record, err := NewPageRecord(mustTitle(t, "Дружба"), []string{"Любов", "Рим"}, []string{"Приязнь"})

		require.NoError(t, err)
		assert.False(t, record.ID().IsZero())
		assert.Equal(t, "Дружба", record.Title().String())
		assert.Equal(t, []string{"Любов", "Рим"}, record.Links())
		assert.Equal(t, []string{"Приязнь"}, record.Backlinks())
		assert.False(t, record.FetchedAt().IsZero())

		pending := record.GetUncommittedEvents()
		require.Len(t, pending, 1)
		assert.Equal(t, "page.record.created", pending[0].EventType())

		record.MarkEventsAsCommitted()
		assert.Empty(t, record.GetUncommittedEvents())
	})

	t.Run("rejects an empty link set", func(t *testing.T) {
		_, err := NewPageRecord(mustTitle(t, "Дружба"), nil, nil)
		assert.Error(t, err)
	})
}

func TestPageRecord_LinksTo(t *testing.T) {
	record, err := NewPageRecord(mustTitle(t, "Дружба"), []string{"Любов", "Рим"}, nil)
	require.NoError(t, err)

	assert.True(t, record.LinksTo("Рим"))
	assert.False(t, record.LinksTo("Китай"))
}

func TestPageRecord_AddChild(t *testing.T) {
	record, err := NewPageRecord(mustTitle(t, "Дружба"), []string{"Любов"}, nil)
	require.NoError(t, err)
	record.MarkEventsAsCommitted()

	record.AddChild("Рим")
	record.AddChild("Рим")
	record.AddChild("Китай")

	assert.Equal(t, []string{"Рим", "Китай"}, record.Children())

	// One event per distinct edge
	pending := record.GetUncommittedEvents()
	require.Len(t, pending, 2)
	assert.Equal(t, "page.descendant.linked", pending[0].EventType())
}

func TestPageRecord_GettersReturnCopies(t *testing.T) {
	record, err := NewPageRecord(mustTitle(t, "Дружба"), []string{"Любов"}, nil)
	require.NoError(t, err)

	links := record.Links()
	links[0] = "Змінено"

	assert.Equal(t, []string{"Любов"}, record.Links())
}
