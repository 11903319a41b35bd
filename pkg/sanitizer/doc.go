// Package sanitizer normalizes free-text input before validation and
// storage.
//
// Every function is idempotent and never fails: input that cannot be
// normalized comes back empty, and validation reports it.
package sanitizer
