package service

import (
	"card-swipe/internal/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCard(t *testing.T) {
	cards := []models.Card{
		{ID: "x", Created: 10},
		{Created: 20},
		{ID: "y", Created: 30},
	}

	t.Run("by id", func(t *testing.T) {
		loc, ok := ResolveCard(cards, models.CardRef{Owner: "amy", ID: "y", Created: 999})
		require.True(t, ok)
		assert.Equal(t, 2, loc.Index)
		assert.Equal(t, "amy", loc.Ref.Owner)
	})

	t.Run("by created when there is no id", func(t *testing.T) {
		loc, ok := ResolveCard(cards, models.CardRef{Owner: "amy", Created: 20})
		require.True(t, ok)
		assert.Equal(t, 1, loc.Index)
	})

	t.Run("miss", func(t *testing.T) {
		_, ok := ResolveCard(cards, models.CardRef{Owner: "amy", ID: "gone"})
		assert.False(t, ok)
	})
}

func TestIdentityResolverUnknownOwner(t *testing.T) {
	resolver := NewIdentityResolver(newRepo())
	_, _, ok, err := resolver.Resolve(context.Background(), models.CardRef{Owner: "nobody", ID: "x"})
	require.NoError(t, err)
	assert.False(t, ok)
}
