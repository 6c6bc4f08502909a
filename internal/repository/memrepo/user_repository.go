package memrepo

import (
	"card-swipe/internal/models"
	"card-swipe/internal/utils"
	"context"
	"fmt"
	"sync"
)

// UserRepository is an in-process store with the same positional write
// semantics as the DynamoDB repository. Each call is atomic on its own; there
// is no atomicity across calls.
type UserRepository struct {
	mu    sync.Mutex
	order []string
	users map[string]*models.User

	// AfterRead, if set, runs after GetUser/GetCards/ListUsers took their
	// snapshot and before they return. Tests use it to line up races.
	AfterRead func(op, username string)
	// Fail makes the named operation return a store error.
	Fail map[string]error
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: map[string]*models.User{},
		Fail:  map[string]error{},
	}
}

// Put stores a copy of user, replacing any existing record.
func (m *UserRepository) Put(user models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; !ok {
		m.order = append(m.order, user.Username)
	}
	u := copyUser(user)
	m.users[user.Username] = &u
}

// Snapshot returns a copy of the stored record, or nil.
func (m *UserRepository) Snapshot(username string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil
	}
	c := copyUser(*u)
	return &c
}

func (m *UserRepository) fail(op string) error {
	if err, ok := m.Fail[op]; ok {
		return utils.NewStoreError(op, err)
	}
	return nil
}

func (m *UserRepository) afterRead(op, username string) {
	if m.AfterRead != nil {
		m.AfterRead(op, username)
	}
}

func (m *UserRepository) GetUser(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	if err := m.fail("get user"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	var user *models.User
	if u, ok := m.users[username]; ok {
		c := copyUser(*u)
		user = &c
	}
	m.mu.Unlock()

	m.afterRead("get user", username)
	return user, nil
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("create user"); err != nil {
		return false, err
	}
	if _, ok := m.users[user.Username]; ok {
		return false, nil
	}
	m.order = append(m.order, user.Username)
	u := copyUser(*user)
	m.users[user.Username] = &u
	return true, nil
}

func (m *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	if err := m.fail("list users"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	users := make([]models.User, 0, len(m.order))
	for _, name := range m.order {
		users = append(users, copyUser(*m.users[name]))
	}
	m.mu.Unlock()

	m.afterRead("list users", "")
	return users, nil
}

func (m *UserRepository) GetCards(ctx context.Context, owner string) ([]models.Card, bool, error) {
	m.mu.Lock()
	if err := m.fail("get cards"); err != nil {
		m.mu.Unlock()
		return nil, false, err
	}
	u, ok := m.users[owner]
	var cards []models.Card
	if ok {
		cards = append([]models.Card(nil), u.Cards...)
	}
	m.mu.Unlock()

	m.afterRead("get cards", owner)
	return cards, ok, nil
}

func (m *UserRepository) AppendCard(ctx context.Context, owner string, card models.Card, length int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("append card"); err != nil {
		return false, err
	}
	u, ok := m.users[owner]
	if !ok || len(u.Cards) != length {
		return false, nil
	}
	u.Cards = append(u.Cards, card)
	return true, nil
}

func (m *UserRepository) SetCardCounter(ctx context.Context, loc models.CardLocation, counter models.Counter, value int) (bool, error) {
	if !counter.Valid() {
		return false, fmt.Errorf("unknown counter %q", counter)
	}
	return m.updateCard("set counter", loc, func(u *models.User, c *models.Card) {
		if counter == models.CounterLikes {
			c.Likes = value
		} else {
			c.Views = value
		}
	})
}

func (m *UserRepository) SetCardBoosted(ctx context.Context, loc models.CardLocation, boosted bool) (bool, error) {
	return m.updateCard("set boosted", loc, func(u *models.User, c *models.Card) {
		c.Boosted = boosted
	})
}

func (m *UserRepository) SaveBoostPurchase(ctx context.Context, loc models.CardLocation, coins int) (bool, error) {
	return m.updateCard("save boost", loc, func(u *models.User, c *models.Card) {
		u.Coins = coins
		c.Boosted = true
	})
}

func (m *UserRepository) SaveQuestAward(ctx context.Context, username, questID string, coins int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("save quest award"); err != nil {
		return false, err
	}
	u, ok := m.users[username]
	if !ok || u.Quests[questID] {
		return false, nil
	}
	if u.Quests == nil {
		u.Quests = map[string]bool{}
	}
	u.Quests[questID] = true
	u.Coins = coins
	return true, nil
}

func (m *UserRepository) updateCard(op string, loc models.CardLocation, apply func(*models.User, *models.Card)) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(op); err != nil {
		return false, err
	}
	u, ok := m.users[loc.Ref.Owner]
	if !ok || loc.Index < 0 || loc.Index >= len(u.Cards) {
		return false, nil
	}
	c := &u.Cards[loc.Index]
	if !loc.Ref.Matches(*c) {
		return false, nil
	}
	apply(u, c)
	return true, nil
}

func copyUser(u models.User) models.User {
	c := u
	c.Cards = append([]models.Card{}, u.Cards...)
	c.Quests = make(map[string]bool, len(u.Quests))
	for k, v := range u.Quests {
		c.Quests[k] = v
	}
	return c
}

var _ utils.UserRepository = (*UserRepository)(nil)
