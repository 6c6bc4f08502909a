package main

import (
	"card-swipe/internal/models"
	"card-swipe/internal/repository/memrepo"
	"card-swipe/internal/service"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func cards(n int) []models.Card {
	out := make([]models.Card, n)
	for i := range out {
		out[i] = models.Card{ID: string(rune('a' + i)), Created: int64(i)}
	}
	return out
}

func TestHandleQuestEvaluation(t *testing.T) {
	ctx := context.Background()
	repo := memrepo.NewUserRepository()
	repo.Put(models.User{Username: "amy", Cards: cards(10), Quests: map[string]bool{}})
	engine := service.NewQuestEngine(testLogger(), repo, models.DefaultQuestTracks())
	handler, err := NewHandler(testLogger(), engine)
	require.NoError(t, err)

	t.Run("awards reached milestones", func(t *testing.T) {
		resp, err := handler.HandleQuestEvaluation(ctx, map[string]string{"username": "amy"})
		require.NoError(t, err)
		assert.Equal(t, "success", resp["status"])
		data := resp["data"].(map[string]interface{})
		assert.Equal(t, 1, data["coins"])
		assert.Equal(t, 1, repo.Snapshot("amy").Coins)
	})

	t.Run("repeat is a no-op", func(t *testing.T) {
		resp, err := handler.HandleQuestEvaluation(ctx, map[string]string{"username": "amy"})
		require.NoError(t, err)
		assert.Empty(t, resp["data"].(map[string]interface{})["awarded"])
		assert.Equal(t, 1, repo.Snapshot("amy").Coins)
	})

	t.Run("missing username", func(t *testing.T) {
		resp, err := handler.HandleQuestEvaluation(ctx, map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, "error", resp["status"])
	})

	t.Run("unknown user", func(t *testing.T) {
		resp, err := handler.HandleQuestEvaluation(ctx, map[string]string{"username": "ghost"})
		require.NoError(t, err)
		assert.Equal(t, "User not found", resp["message"])
	})

	t.Run("store failure", func(t *testing.T) {
		repo.Fail["get user"] = errors.New("timeout")
		defer delete(repo.Fail, "get user")
		resp, err := handler.HandleQuestEvaluation(ctx, map[string]string{"username": "amy"})
		require.NoError(t, err)
		assert.Equal(t, "Failed to evaluate quests", resp["message"])
	})
}
