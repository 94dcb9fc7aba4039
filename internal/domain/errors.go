package domain

import "errors"

var (
	ErrStockExceeded   = errors.New("out of stock")
	ErrFetchFailed     = errors.New("catalog fetch failed")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidAmount   = errors.New("invalid amount")
)

// AmountError marks a failed amount update, including the increment an add
// performs on a product already in the cart. It reads as the error it wraps.
type AmountError struct {
	Err error
}

func (e *AmountError) Error() string {
	return e.Err.Error()
}

func (e *AmountError) Unwrap() error {
	return e.Err
}
