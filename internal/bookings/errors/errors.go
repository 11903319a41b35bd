package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStatusChanged means a conditional status update matched nothing:
	// another request moved the booking first.
	ErrStatusChanged = errors.New("booking status changed concurrently")

	ErrLockHeld = errors.New("provider schedule is locked by another request")
)
