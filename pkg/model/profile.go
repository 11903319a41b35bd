package model

import (
	"servly/pkg/scheduling"
	"time"
)

const (
	ApplicationNone     = ""
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

type Profile struct {
	ID                string          `json:"id" bson:"_id" validate:"required"`
	Email             string          `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Role              scheduling.Role `json:"role" bson:"role" validate:"required,oneof=USER PROVIDER ADMIN"`
	Name              string          `json:"name,omitempty" bson:"name,omitempty" validate:"omitempty,min=3,max=100"`
	Phone             string          `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Bio               string          `json:"bio,omitempty" bson:"bio,omitempty" validate:"omitempty,max=2000"`
	Categories        []string        `json:"categories,omitempty" bson:"categories,omitempty" validate:"omitempty,dive,min=2,max=50"`
	ApplicationStatus string          `json:"application_status,omitempty" bson:"application_status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	CreatedAt         time.Time       `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt         time.Time       `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type ProviderApplication struct {
	Name       string   `json:"name" validate:"required,min=3,max=100"`
	Phone      string   `json:"phone" validate:"required,min=10,max=20"`
	Bio        string   `json:"bio" validate:"required,min=20,max=2000"`
	Categories []string `json:"categories" validate:"required,min=1,max=20,dive,min=2,max=50"`
}
