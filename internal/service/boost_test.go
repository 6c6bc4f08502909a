package service

import (
	"card-swipe/internal/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoostPurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("insufficient coins", func(t *testing.T) {
		repo := newRepo(models.User{Username: "bob", Cards: makeCards(1), Coins: 0})
		boosts := NewBoostService(testLogger(), repo)

		_, err := boosts.Purchase(ctx, "bob", 0)
		assert.ErrorIs(t, err, ErrInsufficientCoins)
		assert.True(t, IsValidation(err))

		stored := repo.Snapshot("bob")
		assert.False(t, stored.Cards[0].Boosted)
		assert.Equal(t, 0, stored.Coins)
	})

	t.Run("spends one coin", func(t *testing.T) {
		repo := newRepo(models.User{Username: "bob", Cards: makeCards(2), Coins: 1})
		boosts := NewBoostService(testLogger(), repo)

		result, err := boosts.Purchase(ctx, "bob", 1)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Coins)
		assert.True(t, result.Card.Boosted)

		stored := repo.Snapshot("bob")
		assert.Equal(t, 0, stored.Coins)
		assert.False(t, stored.Cards[0].Boosted)
		assert.True(t, stored.Cards[1].Boosted)
	})

	t.Run("bad index", func(t *testing.T) {
		repo := newRepo(models.User{Username: "bob", Cards: makeCards(1), Coins: 3})
		boosts := NewBoostService(testLogger(), repo)

		for _, index := range []int{-1, 1} {
			_, err := boosts.Purchase(ctx, "bob", index)
			assert.ErrorIs(t, err, ErrCardIndex)
		}
		assert.Equal(t, 3, repo.Snapshot("bob").Coins)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := NewBoostService(testLogger(), newRepo()).Purchase(ctx, "ghost", 0)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestBoostConsume(t *testing.T) {
	ctx := context.Background()
	cards := makeCards(2)
	cards[0].Boosted = true
	repo := newRepo(models.User{Username: "bob", Cards: cards})
	boosts := NewBoostService(testLogger(), repo)

	require.NoError(t, boosts.Consume(ctx, cards[0].Ref("bob")))
	assert.False(t, repo.Snapshot("bob").Cards[0].Boosted)

	// not boosted and vanished cards are left alone
	require.NoError(t, boosts.Consume(ctx, cards[1].Ref("bob")))
	require.NoError(t, boosts.Consume(ctx, models.CardRef{Owner: "bob", ID: "gone"}))
}
