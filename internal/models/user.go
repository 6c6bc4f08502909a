package models

type User struct {
	Username string          `json:"username" dynamodbav:"username"`
	Cards    []Card          `json:"cards" dynamodbav:"cards"`
	Coins    int             `json:"coins" dynamodbav:"coins"`
	Quests   map[string]bool `json:"quests" dynamodbav:"quests"`
}

// NewUser returns the empty record written on first login.
func NewUser(username string) *User {
	return &User{
		Username: username,
		Cards:    []Card{},
		Coins:    0,
		Quests:   map[string]bool{},
	}
}

// Stats aggregates the statistics quest tracks are measured against.
func (u *User) Stats() Stats {
	stats := Stats{Cards: len(u.Cards)}
	for _, c := range u.Cards {
		stats.Likes += c.Likes
		stats.Views += c.Views
	}
	return stats
}

func (u *User) QuestAwarded(questID string) bool {
	return u.Quests != nil && u.Quests[questID]
}

type Stats struct {
	Cards int `json:"cards"`
	Likes int `json:"likes"`
	Views int `json:"views"`
}

// Value returns the statistic selected by key, or 0 for an unknown key.
func (s Stats) Value(key AggregateKey) int {
	switch key {
	case AggregateCards:
		return s.Cards
	case AggregateLikes:
		return s.Likes
	case AggregateViews:
		return s.Views
	}
	return 0
}
