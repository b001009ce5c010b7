package usecase

import (
	"errors"
	"fmt"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

var (
	// ErrInsufficientStock means a decrease exceeds the available quantity.
	// The quantity is rejected before mutation, never clamped.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity means a negative or otherwise unusable quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
)
