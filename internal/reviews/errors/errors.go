package errors

import "errors"

var (
	ErrNotFound = errors.New("review not found")

	// ErrAlreadyExists is returned when the unique booking_id index rejects
	// a second review of the same booking.
	ErrAlreadyExists = errors.New("booking already reviewed")
)
