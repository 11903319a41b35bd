package model

import (
	"servly/pkg/scheduling"
	"time"
)

const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventReviewCreated        = "review.created"
)

type BookingEvent struct {
	BookingID  string            `json:"booking_id"`
	UserID     string            `json:"user_id"`
	ProviderID string            `json:"provider_id"`
	ServiceID  string            `json:"service_id"`
	StartTime  time.Time         `json:"start_time"`
	EndTime    time.Time         `json:"end_time"`
	Status     scheduling.Status `json:"status"`
	Previous   scheduling.Status `json:"previous_status,omitempty"`
	ActorID    string            `json:"actor_id"`
	ActorRole  scheduling.Role   `json:"actor_role"`
	OccurredAt time.Time         `json:"occurred_at"`
}
