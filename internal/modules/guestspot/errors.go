package guestspot

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("guest spot booking not found")
	ErrForbidden       = errors.New("forbidden")
	ErrAlreadyDecided  = errors.New("reaction already decided")
	ErrPayoutsDisabled = errors.New("shop cannot receive payouts")
)
