package service

import (
	"card-swipe/internal/models"
	"card-swipe/internal/repository/memrepo"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func makeCards(n int) []models.Card {
	cards := make([]models.Card, n)
	for i := range cards {
		cards[i] = models.Card{ID: fmt.Sprintf("card-%d", i), Text: "hello", Created: int64(1000 + i)}
	}
	return cards
}

func newRepo(users ...models.User) *memrepo.UserRepository {
	repo := memrepo.NewUserRepository()
	for _, u := range users {
		if u.Quests == nil {
			u.Quests = map[string]bool{}
		}
		repo.Put(u)
	}
	return repo
}

// barrier makes the first n reads of op wait for each other.
func barrier(repo *memrepo.UserRepository, op string, n int) {
	var wg sync.WaitGroup
	wg.Add(n)
	var mu sync.Mutex
	remaining := n
	repo.AfterRead = func(readOp, _ string) {
		if readOp != op {
			return
		}
		mu.Lock()
		if remaining == 0 {
			mu.Unlock()
			return
		}
		remaining--
		mu.Unlock()
		wg.Done()
		wg.Wait()
	}
}

type recordingTrigger struct {
	mu    sync.Mutex
	users []string
	err   error
}

func (r *recordingTrigger) TriggerQuestEvaluation(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, username)
	return r.err
}

type recordingMedia struct {
	keys         []string
	contentTypes []string
	err          error
}

func (r *recordingMedia) PutMedia(ctx context.Context, key, contentType string, body []byte) error {
	if r.err != nil {
		return r.err
	}
	r.keys = append(r.keys, key)
	r.contentTypes = append(r.contentTypes, contentType)
	return nil
}
