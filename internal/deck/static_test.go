package deck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider(t *testing.T) {
	provider := NewStaticProvider()

	cards, err := provider.GetDeck(context.Background(), DefaultDeckID)
	require.NoError(t, err)
	assert.Len(t, cards, provider.Size())

	seen := make(map[string]bool, len(cards))
	for _, c := range cards {
		assert.NotEmpty(t, c.ID)
		assert.NotEmpty(t, c.Title)
		assert.False(t, seen[c.ID], "duplicate card id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestGetDeckReturnsACopy(t *testing.T) {
	provider := NewStaticProvider()

	first, err := provider.GetDeck(context.Background(), DefaultDeckID)
	require.NoError(t, err)
	first[0].Title = "mutated"

	second, err := provider.GetDeck(context.Background(), DefaultDeckID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", second[0].Title)
}
