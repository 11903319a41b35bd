package model

import "time"

// Listing is a service a provider offers on the marketplace.
type Listing struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProviderID  string    `json:"provider_id" bson:"provider_id" validate:"required"`
	Title       string    `json:"title" bson:"title" validate:"required,min=3,max=120"`
	Description string    `json:"description" bson:"description" validate:"required,min=10,max=2000"`
	Category    string    `json:"category" bson:"category" validate:"required,min=2,max=50"`
	Price       int64     `json:"price" bson:"price" validate:"required,gt=0"`
	City        string    `json:"city" bson:"city" validate:"required,min=2,max=50"`
	Rating      float64   `json:"rating" bson:"rating" validate:"min=0,max=5"`
	RatingCount int64     `json:"rating_count" bson:"rating_count" validate:"min=0"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ListingPayload struct {
	Title       string `json:"title" validate:"required,min=3,max=120"`
	Description string `json:"description" validate:"required,min=10,max=2000"`
	Category    string `json:"category" validate:"required,min=2,max=50"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	City        string `json:"city" validate:"required,min=2,max=50"`
}

type ListingFilter struct {
	Search    string   `validate:"omitempty,max=100"`
	Category  string   `validate:"omitempty,max=50"`
	MinPrice  *int64   `validate:"omitempty,min=0"`
	MaxPrice  *int64   `validate:"omitempty,min=0"`
	MinRating *float64 `validate:"omitempty,min=0,max=5"`
	City      string   `validate:"omitempty,max=50"`
	Page      int      `validate:"min=1"`
}
