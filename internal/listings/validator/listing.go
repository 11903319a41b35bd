package validator

import (
	"servly/pkg/logger"
	"servly/pkg/model"
	"servly/pkg/validation"
)

type ListingValidator struct {
	validate *validation.Validator
}

func NewListingValidator(log *logger.Logger) *ListingValidator {
	v := validation.New(log)
	log.Info("Listing validator initialized successfully")
	return &ListingValidator{validate: v}
}

func (v *ListingValidator) ValidatePayload(payload *model.ListingPayload) error {
	return v.validate.Struct(payload)
}

// ValidateFilter also rejects an inverted price range.
func (v *ListingValidator) ValidateFilter(filter *model.ListingFilter) error {
	if err := v.validate.Struct(filter); err != nil {
		return err
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return validation.ValidationErrors{{
			Field:   "max_price",
			Message: "max_price must be at least min_price",
		}}
	}
	return nil
}
