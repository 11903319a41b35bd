package errors

import "errors"

var (
	ErrNotFound = errors.New("listing not found")

	ErrInvalidID = errors.New("invalid listing ID format")

	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrRatingApplied marks a review already folded into its listing's
	// rating; redelivered events are skipped.
	ErrRatingApplied = errors.New("review rating already applied")
)
