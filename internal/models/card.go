package models

type Counter string

const (
	CounterViews Counter = "views"
	CounterLikes Counter = "likes"
)

func (c Counter) Valid() bool {
	return c == CounterViews || c == CounterLikes
}

type Card struct {
	ID      string `json:"id" dynamodbav:"id"`
	Text    string `json:"text,omitempty" dynamodbav:"text,omitempty"`
	Media   string `json:"media,omitempty" dynamodbav:"media,omitempty"` // S3 object key
	Likes   int    `json:"likes" dynamodbav:"likes"`
	Views   int    `json:"views" dynamodbav:"views"`
	Created int64  `json:"created" dynamodbav:"created"` // unix millis
	Boosted bool   `json:"boosted" dynamodbav:"boosted"`
}

func (c Card) Counter(name Counter) int {
	if name == CounterLikes {
		return c.Likes
	}
	return c.Views
}

// CardRef identifies a card within its owner's sequence. ID is preferred;
// Created is the lookup key for records written before cards carried an id.
type CardRef struct {
	Owner   string `json:"owner"`
	ID      string `json:"id,omitempty"`
	Created int64  `json:"created"`
}

func (r CardRef) Matches(c Card) bool {
	if r.ID != "" {
		return c.ID == r.ID
	}
	return c.Created == r.Created
}

func (c Card) Ref(owner string) CardRef {
	return CardRef{Owner: owner, ID: c.ID, Created: c.Created}
}

// CardLocation is a resolved position of a card within its owner's sequence.
type CardLocation struct {
	Ref   CardRef
	Index int
}
