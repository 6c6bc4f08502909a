package service

import (
	"card-swipe/internal/models"
	"card-swipe/internal/utils"
	"context"

	"github.com/sirupsen/logrus"
)

const BoostCost = 1

type BoostResult struct {
	Coins int         `json:"coins"`
	Card  models.Card `json:"card"`
}

type BoostService struct {
	logger   *logrus.Entry
	repo     utils.UserRepository
	resolver *IdentityResolver
}

func NewBoostService(logger *logrus.Entry, repo utils.UserRepository) *BoostService {
	return &BoostService{
		logger:   logger,
		repo:     repo,
		resolver: NewIdentityResolver(repo),
	}
}

// Purchase spends BoostCost coins to boost the owner's card at index.
func (b *BoostService) Purchase(ctx context.Context, username string, index int) (*BoostResult, error) {
	username, err := cleanUsername(username)
	if err != nil {
		return nil, err
	}
	user, err := b.repo.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if index < 0 || index >= len(user.Cards) {
		return nil, invalid(ErrCardIndex)
	}
	if user.Coins < BoostCost {
		return nil, invalid(ErrInsufficientCoins)
	}

	card := user.Cards[index]
	coins := user.Coins - BoostCost
	loc := models.CardLocation{Ref: card.Ref(username), Index: index}
	applied, err := b.repo.SaveBoostPurchase(ctx, loc, coins)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, invalid(ErrCardIndex)
	}

	card.Boosted = true
	b.logger.WithFields(logrus.Fields{
		"username": username,
		"card":     card.ID,
		"coins":    coins,
	}).Info("Card boosted")
	return &BoostResult{Coins: coins, Card: card}, nil
}

// Consume persists the end of a boost once the card has been presented.
func (b *BoostService) Consume(ctx context.Context, ref models.CardRef) error {
	loc, card, ok, err := b.resolver.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	if !ok || !card.Boosted {
		return nil
	}

	if _, err := b.repo.SetCardBoosted(ctx, loc, false); err != nil {
		return err
	}
	b.logger.WithFields(logrus.Fields{
		"owner": ref.Owner,
		"card":  ref.ID,
	}).Info("Boost consumed")
	return nil
}
