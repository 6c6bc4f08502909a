package memrepo

import (
	"card-swipe/internal/models"
	"card-swipe/internal/utils"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendCard(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	repo.Put(models.User{Username: "amy", Cards: []models.Card{{ID: "c1", Created: 1}}})

	applied, err := repo.AppendCard(ctx, "amy", models.Card{ID: "c2", Created: 2}, 0)
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = repo.AppendCard(ctx, "amy", models.Card{ID: "c2", Created: 2}, 1)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Len(t, repo.Snapshot("amy").Cards, 2)

	applied, err = repo.AppendCard(ctx, "ghost", models.Card{ID: "c1"}, 0)
	require.NoError(t, err)
	assert.False(t, applied)

	repo.Fail["append card"] = errors.New("timeout")
	_, err = repo.AppendCard(ctx, "amy", models.Card{ID: "c3"}, 2)
	var storeErr *utils.StoreError
	assert.ErrorAs(t, err, &storeErr)
}

func TestPositionalWritesCheckIdentity(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	repo.Put(models.User{Username: "amy", Cards: []models.Card{{ID: "c1", Created: 1}, {Created: 2}}})

	applied, err := repo.SetCardCounter(ctx, models.CardLocation{Ref: models.CardRef{Owner: "amy", ID: "c1"}, Index: 1}, models.CounterLikes, 4)
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = repo.SetCardCounter(ctx, models.CardLocation{Ref: models.CardRef{Owner: "amy", Created: 2}, Index: 1}, models.CounterLikes, 4)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 4, repo.Snapshot("amy").Cards[1].Likes)
}
