package errors

import "errors"

var (
	ErrNotFound   = errors.New("profile not found")
	ErrNotPending = errors.New("provider application is not pending")
)
