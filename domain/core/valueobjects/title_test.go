package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageTitle(t *testing.T) {
	t.Run("accepts a normal title", func(t *testing.T) {
		title, err := NewPageTitle("Дружба")
		require.NoError(t, err)
		assert.Equal(t, "Дружба", title.String())
		assert.False(t, title.IsZero())
	})

	t.Run("rejects the empty title", func(t *testing.T) {
		_, err := NewPageTitle("")
		assert.Error(t, err)
	})
}

func TestIsStructural(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"plain article title", "Дружба", false},
		{"namespaced title keeps substantive characters", "Вікіпедія:Довідка", false},
		{"subpage keeps substantive characters", "Дружба/Архів", false},
		{"single slash", "/", true},
		{"single colon", ":", true},
		{"only separators", "//::/", true},
		{"empty title is vacuously structural", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStructural(tt.title, DefaultSeparators))
		})
	}
}

func TestContainsSeparator(t *testing.T) {
	assert.False(t, ContainsSeparator("Дружба", DefaultSeparators))
	assert.True(t, ContainsSeparator("Вікіпедія:Довідка", DefaultSeparators))
	assert.True(t, ContainsSeparator("Дружба/Архів", DefaultSeparators))

	title, err := NewPageTitle("Дружба/Архів")
	require.NoError(t, err)
	assert.True(t, title.ContainsSeparator(DefaultSeparators))
	assert.False(t, title.IsStructural(DefaultSeparators))
}
