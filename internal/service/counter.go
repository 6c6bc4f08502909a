package service

import (
	"card-swipe/internal/models"
	"card-swipe/internal/utils"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

type CounterResult struct {
	Applied bool `json:"applied"`
	Value   int  `json:"value"`
}

// CounterReconciler applies increments as a read of the persisted value
// followed by a write of value+amount. Two increments racing on the same card
// may both read the same value, in which case one of them is lost.
type CounterReconciler struct {
	logger   *logrus.Entry
	repo     utils.UserRepository
	resolver *IdentityResolver
}

func NewCounterReconciler(logger *logrus.Entry, repo utils.UserRepository) *CounterReconciler {
	return &CounterReconciler{
		logger:   logger,
		repo:     repo,
		resolver: NewIdentityResolver(repo),
	}
}

// Increment adds amount to one counter of the card identified by ref. A card
// that cannot be resolved is a no-op reported as Applied=false.
func (c *CounterReconciler) Increment(ctx context.Context, ref models.CardRef, counter models.Counter, amount int) (CounterResult, error) {
	if !counter.Valid() {
		return CounterResult{}, fmt.Errorf("unknown counter %q", counter)
	}
	if amount <= 0 {
		return CounterResult{}, fmt.Errorf("counter increment must be positive, got %d", amount)
	}

	logger := c.logger.WithFields(logrus.Fields{
		"owner":   ref.Owner,
		"card":    ref.ID,
		"created": ref.Created,
		"counter": counter,
	})

	loc, card, ok, err := c.resolver.Resolve(ctx, ref)
	if err != nil {
		return CounterResult{}, err
	}
	if !ok {
		logger.Warn("Card not found, skipping counter update")
		return CounterResult{}, nil
	}

	value := card.Counter(counter) + amount
	applied, err := c.repo.SetCardCounter(ctx, loc, counter, value)
	if err != nil {
		return CounterResult{}, err
	}
	if !applied {
		logger.Warn("Card moved before counter write, skipping")
		return CounterResult{}, nil
	}

	logger.WithField("value", value).Debug("Counter updated")
	return CounterResult{Applied: true, Value: value}, nil
}
