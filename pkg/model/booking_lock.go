package model

import "time"

// BookingLock is an advisory lock on a provider's whole schedule, keyed
// "provider:<id>". It serialises every check-and-insert and confirm for
// that provider regardless of start time. Create replaces a lock whose
// ExpiresAt has passed, and the TTL index on ExpiresAt removes the rest.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
