package models

type SwipeDirection string

const (
	SwipeRight SwipeDirection = "right" // like
	SwipeLeft  SwipeDirection = "left"  // skip
)

func (d SwipeDirection) Valid() bool {
	return d == SwipeRight || d == SwipeLeft
}

// SwipeQueueEntry is a card as snapshotted into one viewer's queue.
type SwipeQueueEntry struct {
	Owner string `json:"owner"`
	Card
}

func (e SwipeQueueEntry) Ref() CardRef {
	return e.Card.Ref(e.Owner)
}
