package booking

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("booking not found")
	ErrForbidden       = errors.New("forbidden")
	ErrAlreadyDecided  = errors.New("reaction already decided")
	ErrPayoutsDisabled = errors.New("artist cannot receive payouts")
)
