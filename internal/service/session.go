package service

import (
	"card-swipe/internal/models"
	"card-swipe/internal/utils"
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Swiper creates viewer sessions over a shared set of collaborators.
type Swiper struct {
	logger   *logrus.Entry
	feed     *FeedBuilder
	counters *CounterReconciler
	boosts   *BoostService
	quests   utils.QuestTrigger
}

func NewSwiper(logger *logrus.Entry, repo utils.UserRepository, quests utils.QuestTrigger) *Swiper {
	return &Swiper{
		logger:   logger,
		feed:     NewFeedBuilder(logger, repo),
		counters: NewCounterReconciler(logger, repo),
		boosts:   NewBoostService(logger, repo),
		quests:   quests,
	}
}

// NewSession starts an empty session for viewer. Call Load before Next.
func (s *Swiper) NewSession(viewer string) *SwipeSession {
	id := uuid.NewString()
	return &SwipeSession{
		ID:     id,
		Viewer: viewer,
		swiper: s,
		logger: s.logger.WithFields(logrus.Fields{"viewer": viewer, "session": id}),
		seen:   map[string]bool{},
	}
}

// SwipeSession is one viewer's transient queue. It is never persisted; cards
// already presented in the session are left out when the queue is rebuilt.
type SwipeSession struct {
	ID     string
	Viewer string

	swiper  *Swiper
	logger  *logrus.Entry
	mu      sync.Mutex
	queue   []models.SwipeQueueEntry
	current *models.SwipeQueueEntry
	seen    map[string]bool
}

func seenKey(ref models.CardRef) string {
	if ref.ID != "" {
		return ref.Owner + "#" + ref.ID
	}
	return fmt.Sprintf("%s@%d", ref.Owner, ref.Created)
}

// Load rebuilds the queue from the store.
func (s *SwipeSession) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *SwipeSession) load(ctx context.Context) error {
	queue, err := s.swiper.feed.Build(ctx, s.Viewer)
	if err != nil {
		return err
	}

	s.queue = s.queue[:0]
	for _, entry := range queue {
		if !s.seen[seenKey(entry.Ref())] {
			s.queue = append(s.queue, entry)
		}
	}
	return nil
}

// Current returns the card being presented, or nil.
func (s *SwipeSession) Current() *models.SwipeQueueEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	entry := *s.current
	return &entry
}

func (s *SwipeSession) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Next dequeues and presents the head of the queue. The returned entry keeps
// Boosted set for the showing that consumed the boost. It returns
// ErrNoMoreCards when the queue is empty. A store failure is returned after the card already
// became current, so it can still be swiped.
func (s *SwipeSession) Next(ctx context.Context) (*models.SwipeQueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next(ctx)
}

func (s *SwipeSession) next(ctx context.Context) (*models.SwipeQueueEntry, error) {
	if len(s.queue) == 0 {
		s.current = nil
		return nil, ErrNoMoreCards
	}

	entry := s.queue[0]
	s.queue = s.queue[1:]
	ref := entry.Ref()
	s.seen[seenKey(ref)] = true

	wasBoosted := entry.Boosted
	entry.Boosted = false
	s.current = &entry

	res, err := s.swiper.counters.Increment(ctx, ref, models.CounterViews, 1)
	if err != nil {
		s.logger.WithError(err).Error("Failed to record view")
		return nil, err
	}
	if res.Applied {
		entry.Views = res.Value
	}

	if wasBoosted {
		if err := s.swiper.boosts.Consume(ctx, ref); err != nil {
			s.logger.WithError(err).Error("Failed to clear boost")
			return nil, err
		}
	}

	s.evaluateOwner(ctx, entry.Owner)

	s.logger.WithFields(logrus.Fields{
		"owner":   entry.Owner,
		"card":    entry.ID,
		"boosted": wasBoosted,
		"views":   entry.Views,
	}).Info("Presented card")

	// The queue and store no longer hold the boost, but this showing was boosted.
	presented := entry
	presented.Boosted = wasBoosted
	return &presented, nil
}

// Swipe records the decision on the current card and presents the next one.
// A like re-reads the store so the queue reflects other writers.
func (s *SwipeSession) Swipe(ctx context.Context, direction models.SwipeDirection) (*models.SwipeQueueEntry, error) {
	if !direction.Valid() {
		return nil, invalid(ErrInvalidDirection)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, invalid(ErrNoCurrentCard)
	}
	entry := *s.current

	if direction == models.SwipeRight {
		res, err := s.swiper.counters.Increment(ctx, entry.Ref(), models.CounterLikes, 1)
		if err != nil {
			s.logger.WithError(err).Error("Failed to record like")
			return nil, err
		}
		s.logger.WithFields(logrus.Fields{
			"owner":   entry.Owner,
			"card":    entry.ID,
			"applied": res.Applied,
			"likes":   res.Value,
		}).Info("Liked card")

		s.evaluateOwner(ctx, entry.Owner)

		if err := s.load(ctx); err != nil {
			return nil, err
		}
	}

	s.current = nil
	return s.next(ctx)
}

func (s *SwipeSession) evaluateOwner(ctx context.Context, owner string) {
	if err := s.swiper.quests.TriggerQuestEvaluation(ctx, owner); err != nil {
		s.logger.WithError(err).WithField("owner", owner).Warn("Failed to evaluate owner quests") // Non-critical error
	}
}
