package tip

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("tip not found")
	ErrForbidden       = errors.New("forbidden")
	ErrPayoutsDisabled = errors.New("artist cannot receive payouts")
)
