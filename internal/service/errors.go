package service

import "errors"

var (
	ErrInvalidUsername   = errors.New("enter a username")
	ErrEmptyContent      = errors.New("add text or media")
	ErrUnsupportedMedia  = errors.New("media must be an image, video or audio")
	ErrInsufficientCoins = errors.New("not enough coins")
	ErrCardIndex         = errors.New("no card at that index")
	ErrNoCurrentCard     = errors.New("no card is being presented")
	ErrInvalidDirection  = errors.New("swipe direction must be left or right")
)

var (
	// ErrNoMoreCards is the empty-queue signal, not a failure.
	ErrNoMoreCards  = errors.New("no more cards")
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError is a rejected user action. Nothing was written.
type ValidationError struct {
	Reason error
}

func (e *ValidationError) Error() string {
	return e.Reason.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

func invalid(reason error) error {
	return &ValidationError{Reason: reason}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
