package repository

import "errors"

var (
	ErrDuplicate = errors.New("duplicate record")

	// ErrIntentMismatch is returned when a webhook reports a different
	// payment intent than the one already on file for a record.
	ErrIntentMismatch = errors.New("payment intent id mismatch")
)
