package model

import (
	"servly/pkg/scheduling"
	"time"
)

type Review struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BookingID string    `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"required"`
	ServiceID string    `json:"service_id" bson:"service_id" validate:"required,mongodb"`
	Rating    int       `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment,omitempty" bson:"comment,omitempty" validate:"omitempty,max=500"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

func (r *Review) AsExisting() *scheduling.ExistingReview {
	if r == nil {
		return nil
	}
	return &scheduling.ExistingReview{ID: r.ID}
}

type ReviewCreate struct {
	BookingID string `json:"booking_id" validate:"required,mongodb"`
	ServiceID string `json:"service_id" validate:"required,mongodb"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment,omitempty" validate:"omitempty,max=500"`
}

// ReviewCreatedEvent is published after a review is stored; the listings
// service folds it into the listing's rating.
type ReviewCreatedEvent struct {
	ReviewID  string    `json:"review_id"`
	BookingID string    `json:"booking_id"`
	ServiceID string    `json:"service_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
