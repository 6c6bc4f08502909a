package main

import (
	"card-swipe/internal/service"
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

type QuestEvaluator interface {
	Evaluate(ctx context.Context, username string) (*service.QuestEvaluation, error)
}

type Handler struct {
	logger *logrus.Entry
	quests QuestEvaluator
}

func NewHandler(logger *logrus.Entry, quests QuestEvaluator) (*Handler, error) {
	return &Handler{
		logger: logger,
		quests: quests,
	}, nil
}

// HandleQuestEvaluation re-evaluates one user's quests. Failures are reported
// in the payload; evaluation is idempotent so the next event retries it.
func (h *Handler) HandleQuestEvaluation(ctx context.Context, request map[string]string) (map[string]interface{}, error) {
	username := strings.TrimSpace(request["username"])
	if username == "" {
		h.logger.Error("Username is required")
		return map[string]interface{}{
			"status":  "error",
			"message": "Username is required",
		}, nil
	}

	result, err := h.quests.Evaluate(ctx, username)
	if errors.Is(err, service.ErrUserNotFound) {
		h.logger.WithField("username", username).Warn("User not found")
		return map[string]interface{}{
			"status":  "error",
			"message": "User not found",
		}, nil
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to evaluate quests")
		return map[string]interface{}{
			"status":  "error",
			"message": "Failed to evaluate quests",
		}, nil
	}

	h.logger.WithFields(logrus.Fields{
		"username": username,
		"awarded":  len(result.Awarded),
		"coins":    result.Coins,
	}).Info("Successfully evaluated quests")

	return map[string]interface{}{
		"status":  "success",
		"message": "Quests evaluated",
		"data": map[string]interface{}{
			"username": username,
			"coins":    result.Coins,
			"awarded":  result.Awarded,
		},
	}, nil
}
