package service

import (
	"card-swipe/internal/models"
	"card-swipe/internal/utils"
	"context"

	"github.com/sirupsen/logrus"
)

// BuildSwipeQueue flattens every card not owned by viewer, boosted cards
// first. Both groups keep the order of users and then of their cards.
func BuildSwipeQueue(users []models.User, viewer string) []models.SwipeQueueEntry {
	var boosted, rest []models.SwipeQueueEntry
	for _, u := range users {
		if u.Username == viewer {
			continue
		}
		for _, c := range u.Cards {
			entry := models.SwipeQueueEntry{Owner: u.Username, Card: c}
			if c.Boosted {
				boosted = append(boosted, entry)
			} else {
				rest = append(rest, entry)
			}
		}
	}
	return append(boosted, rest...)
}

type FeedBuilder struct {
	logger *logrus.Entry
	repo   utils.UserRepository
}

func NewFeedBuilder(logger *logrus.Entry, repo utils.UserRepository) *FeedBuilder {
	return &FeedBuilder{
		logger: logger,
		repo:   repo,
	}
}

// Build reads every user from the store and returns viewer's queue.
func (f *FeedBuilder) Build(ctx context.Context, viewer string) ([]models.SwipeQueueEntry, error) {
	users, err := f.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	queue := BuildSwipeQueue(users, viewer)
	f.logger.WithFields(logrus.Fields{
		"viewer": viewer,
		"users":  len(users),
		"cards":  len(queue),
	}).Debug("Built swipe queue")
	return queue, nil
}
