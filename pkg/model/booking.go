package model

import (
	"servly/pkg/scheduling"
	"time"
)

type Booking struct {
	ID         string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID     string            `json:"user_id" bson:"user_id" validate:"required"`
	ProviderID string            `json:"provider_id" bson:"provider_id" validate:"required"`
	ServiceID  string            `json:"service_id" bson:"service_id" validate:"required,mongodb"`
	StartTime  time.Time         `json:"start_time" bson:"start_time" validate:"required"`
	EndTime    time.Time         `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status     scheduling.Status `json:"status" bson:"status" validate:"required,booking_status"`
	Notes      string            `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	CreatedAt  time.Time         `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt  time.Time         `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

func (b *Booking) Interval() scheduling.TimeInterval {
	return scheduling.TimeInterval{Start: b.StartTime, End: b.EndTime}
}

func (b *Booking) AsExisting() scheduling.ExistingBooking {
	return scheduling.ExistingBooking{
		ID:       b.ID,
		Interval: b.Interval(),
		Status:   b.Status,
	}
}

func (b *Booking) ReviewTarget() scheduling.ReviewTarget {
	return scheduling.ReviewTarget{
		Status:  b.Status,
		EndTime: b.EndTime,
		UserID:  b.UserID,
	}
}

// BookingCreate is the customer's booking request. The user id comes from
// the authenticated actor, never from the body.
type BookingCreate struct {
	ServiceID  string    `json:"service_id" validate:"required,mongodb"`
	ProviderID string    `json:"provider_id" validate:"required"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" validate:"required"`
	Notes      string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required,booking_status"`
}

func ExistingBookings(bookings []*Booking) []scheduling.ExistingBooking {
	out := make([]scheduling.ExistingBooking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.AsExisting())
	}
	return out
}
