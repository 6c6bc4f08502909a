package service

import (
	"card-swipe/internal/models"
	"card-swipe/internal/utils"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// appendAttempts bounds how often CreateCard re-reads a card list that another
// writer appended to first.
const appendAttempts = 5

type CardInput struct {
	Text  string
	Media *Media
}

type AccountService struct {
	logger *logrus.Entry
	repo   utils.UserRepository
	media  utils.MediaStore
	quests utils.QuestTrigger
	now    func() time.Time
	newID  func() string
}

func NewAccountService(logger *logrus.Entry, repo utils.UserRepository, media utils.MediaStore, quests utils.QuestTrigger) *AccountService {
	return &AccountService{
		logger: logger,
		repo:   repo,
		media:  media,
		quests: quests,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// cleanUsername is applied to every username entering the service layer.
func cleanUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", invalid(ErrInvalidUsername)
	}
	return username, nil
}

// Login returns the user's record, creating an empty one on first login.
func (a *AccountService) Login(ctx context.Context, username string) (*models.User, error) {
	username, err := cleanUsername(username)
	if err != nil {
		return nil, err
	}

	user, err := a.repo.GetUser(ctx, username)
	if err != nil || user != nil {
		return user, err
	}

	user = models.NewUser(username)
	created, err := a.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	if created {
		return user, nil
	}

	// Lost a race with a concurrent first login.
	user, err = a.repo.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (a *AccountService) GetUser(ctx context.Context, username string) (*models.User, error) {
	username, err := cleanUsername(username)
	if err != nil {
		return nil, err
	}
	user, err := a.repo.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// CreateCard appends a new card to the owner's sequence and re-evaluates the
// owner's quests.
func (a *AccountService) CreateCard(ctx context.Context, username string, input CardInput) (*models.Card, error) {
	username, err := cleanUsername(username)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(input.Text)
	hasMedia := input.Media != nil && len(input.Media.Body) > 0
	if text == "" && !hasMedia {
		return nil, invalid(ErrEmptyContent)
	}
	if hasMedia && input.Media.Kind() == "" {
		return nil, invalid(ErrUnsupportedMedia)
	}

	cards, found, err := a.repo.GetCards(ctx, username)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUserNotFound
	}

	card := models.Card{
		ID:   a.newID(),
		Text: text,
	}

	if hasMedia {
		key := fmt.Sprintf("media/%s/%s", username, card.ID)
		if err := a.media.PutMedia(ctx, key, input.Media.ContentType, input.Media.Body); err != nil {
			a.logger.WithError(err).Error("Failed to store card media")
			return nil, utils.NewStoreError("put media", err)
		}
		card.Media = key
	}

	for attempt := 1; ; attempt++ {
		// created stays unique per owner so it remains usable as a lookup key.
		card.Created = a.now().UnixMilli()
		if n := len(cards); n > 0 && card.Created <= cards[n-1].Created {
			card.Created = cards[n-1].Created + 1
		}

		applied, err := a.repo.AppendCard(ctx, username, card, len(cards))
		if err != nil {
			return nil, err
		}
		if applied {
			break
		}
		if attempt == appendAttempts {
			return nil, utils.NewStoreError("append card", fmt.Errorf("card list of %s kept changing", username))
		}

		cards, found, err = a.repo.GetCards(ctx, username)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, ErrUserNotFound
		}
	}

	if err := a.quests.TriggerQuestEvaluation(ctx, username); err != nil {
		a.logger.WithError(err).Warn("Failed to evaluate quests after card creation") // Non-critical error
	}
	return &card, nil
}
