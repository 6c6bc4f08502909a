package service

import (
	"card-swipe/internal/models"
	"card-swipe/internal/utils"
	"context"
)

// ResolveCard scans the full sequence for ref. Positions are not cached since
// other writers may have appended in the meantime.
func ResolveCard(cards []models.Card, ref models.CardRef) (models.CardLocation, bool) {
	for i, c := range cards {
		if ref.Matches(c) {
			return models.CardLocation{Ref: c.Ref(ref.Owner), Index: i}, true
		}
	}
	return models.CardLocation{}, false
}

type IdentityResolver struct {
	repo utils.UserRepository
}

func NewIdentityResolver(repo utils.UserRepository) *IdentityResolver {
	return &IdentityResolver{repo: repo}
}

// Resolve reads the owner's current cards and locates ref among them. ok is
// false when the owner or the card does not exist.
func (r *IdentityResolver) Resolve(ctx context.Context, ref models.CardRef) (loc models.CardLocation, card models.Card, ok bool, err error) {
	cards, found, err := r.repo.GetCards(ctx, ref.Owner)
	if err != nil {
		return models.CardLocation{}, models.Card{}, false, err
	}
	if !found {
		return models.CardLocation{}, models.Card{}, false, nil
	}

	loc, ok = ResolveCard(cards, ref)
	if !ok {
		return models.CardLocation{}, models.Card{}, false, nil
	}
	return loc, cards[loc.Index], true, nil
}
