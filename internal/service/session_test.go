package service

import (
	"card-swipe/internal/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwipeSessionBoostScenario(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(
		models.User{Username: "bob", Cards: makeCards(2), Coins: 1},
		models.User{Username: "dan"},
	)

	_, err := NewBoostService(testLogger(), repo).Purchase(ctx, "bob", 1)
	require.NoError(t, err)
	stored := repo.Snapshot("bob")
	require.Equal(t, 0, stored.Coins)
	require.True(t, stored.Cards[1].Boosted)

	swiper := NewSwiper(testLogger(), repo, &recordingTrigger{})
	session := swiper.NewSession("dan")
	require.NoError(t, session.Load(ctx))

	entry, err := session.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "card-1", entry.ID)
	assert.True(t, entry.Boosted)
	assert.Equal(t, 1, entry.Views)
	assert.False(t, session.Current().Boosted)

	stored = repo.Snapshot("bob")
	assert.False(t, stored.Cards[1].Boosted)
	assert.Equal(t, 1, stored.Cards[1].Views)

	entry, err = session.Swipe(ctx, models.SwipeLeft)
	require.NoError(t, err)
	assert.Equal(t, "card-0", entry.ID)
	assert.False(t, entry.Boosted)
}

func TestSwipeSession(t *testing.T) {
	ctx := context.Background()

	setup := func() (*SwipeSession, *recordingTrigger, func() *models.User) {
		amyCards := makeCards(2)
		amyCards[1].Boosted = true
		repo := newRepo(
			models.User{Username: "amy", Cards: amyCards},
			models.User{Username: "bob", Cards: makeCards(1)},
			models.User{Username: "viewer", Cards: makeCards(1)},
		)
		trigger := &recordingTrigger{}
		session := NewSwiper(testLogger(), repo, trigger).NewSession("viewer")
		require.NoError(t, session.Load(ctx))
		return session, trigger, func() *models.User { return repo.Snapshot("amy") }
	}

	t.Run("presents boosted first then skips through", func(t *testing.T) {
		session, trigger, _ := setup()
		assert.Equal(t, 3, session.Remaining())

		var seen []string
		entry, err := session.Next(ctx)
		for err == nil {
			seen = append(seen, entry.Owner+"/"+entry.ID)
			entry, err = session.Swipe(ctx, models.SwipeLeft)
		}
		assert.ErrorIs(t, err, ErrNoMoreCards)
		assert.Equal(t, []string{"amy/card-1", "amy/card-0", "bob/card-0"}, seen)
		assert.Nil(t, session.Current())
		assert.Equal(t, []string{"amy", "amy", "bob"}, trigger.users)
	})

	t.Run("like increments and refreshes without repeats", func(t *testing.T) {
		session, trigger, amy := setup()

		entry, err := session.Next(ctx)
		require.NoError(t, err)
		require.Equal(t, "card-1", entry.ID)

		next, err := session.Swipe(ctx, models.SwipeRight)
		require.NoError(t, err)
		assert.Equal(t, "card-0", next.ID)
		assert.Equal(t, "amy", next.Owner)
		assert.Equal(t, 1, session.Remaining())

		stored := amy()
		assert.Equal(t, 1, stored.Cards[1].Likes)
		assert.Equal(t, 1, stored.Cards[1].Views)
		assert.False(t, stored.Cards[1].Boosted)
		assert.Contains(t, trigger.users, "amy")
	})

	t.Run("boosted card is not shown boosted again after refresh", func(t *testing.T) {
		session, _, _ := setup()
		first, err := session.Next(ctx)
		require.NoError(t, err)
		require.True(t, first.Boosted)

		require.NoError(t, session.Load(ctx))
		for {
			entry, err := session.Next(ctx)
			if err != nil {
				assert.ErrorIs(t, err, ErrNoMoreCards)
				break
			}
			assert.False(t, entry.Boosted)
			assert.False(t, entry.Owner == "amy" && entry.ID == "card-1")
		}
	})

	t.Run("swipe needs a presented card", func(t *testing.T) {
		session, _, _ := setup()
		_, err := session.Swipe(ctx, models.SwipeRight)
		assert.ErrorIs(t, err, ErrNoCurrentCard)

		_, err = session.Next(ctx)
		require.NoError(t, err)
		_, err = session.Swipe(ctx, models.SwipeDirection("up"))
		assert.ErrorIs(t, err, ErrInvalidDirection)
		assert.NotNil(t, session.Current())
	})

	t.Run("like on a vanished card is absorbed", func(t *testing.T) {
		repo := newRepo(models.User{Username: "amy", Cards: makeCards(1)}, models.User{Username: "viewer"})
		session := NewSwiper(testLogger(), repo, &recordingTrigger{}).NewSession("viewer")
		require.NoError(t, session.Load(ctx))
		_, err := session.Next(ctx)
		require.NoError(t, err)

		repo.Put(models.User{Username: "amy", Cards: []models.Card{}})
		_, err = session.Swipe(ctx, models.SwipeRight)
		assert.ErrorIs(t, err, ErrNoMoreCards)
	})
}

func TestSwipeSessionLikeAwardsOwner(t *testing.T) {
	ctx := context.Background()
	cards := makeCards(1)
	cards[0].Likes = 4
	repo := newRepo(models.User{Username: "amy", Cards: cards}, models.User{Username: "viewer"})
	engine := NewQuestEngine(testLogger(), repo, models.DefaultQuestTracks())
	session := NewSwiper(testLogger(), repo, engine).NewSession("viewer")
	require.NoError(t, session.Load(ctx))

	_, err := session.Next(ctx)
	require.NoError(t, err)
	_, err = session.Swipe(ctx, models.SwipeRight)
	assert.ErrorIs(t, err, ErrNoMoreCards)

	amy := repo.Snapshot("amy")
	assert.Equal(t, 5, amy.Cards[0].Likes)
	assert.True(t, amy.Quests["likes-5"])
	assert.Equal(t, 1, amy.Coins)
	assert.Equal(t, 0, repo.Snapshot("viewer").Coins)
}
