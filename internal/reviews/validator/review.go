package validator

import (
	"servly/pkg/logger"
	"servly/pkg/model"
	"servly/pkg/validation"
)

type ReviewValidator struct {
	validate *validation.Validator
}

func NewReviewValidator(log *logger.Logger) *ReviewValidator {
	v := validation.New(log)
	log.Info("Review validator initialized successfully")
	return &ReviewValidator{validate: v}
}

func (v *ReviewValidator) ValidateCreate(req *model.ReviewCreate) error {
	return v.validate.Struct(req)
}

func (v *ReviewValidator) Validate(review *model.Review) error {
	return v.validate.Struct(review)
}
