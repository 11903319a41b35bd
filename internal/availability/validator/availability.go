package validator

import (
	"servly/pkg/logger"
	"servly/pkg/model"
	"servly/pkg/validation"
)

type AvailabilityValidator struct {
	validate *validation.Validator
}

func NewAvailabilityValidator(log *logger.Logger) *AvailabilityValidator {
	v := validation.New(log)
	log.Info("Availability validator initialized successfully")
	return &AvailabilityValidator{validate: v}
}

func (v *AvailabilityValidator) ValidateCreate(req *model.AvailabilityCreate) error {
	return v.validate.Struct(req)
}

func (v *AvailabilityValidator) Validate(window *model.AvailabilityWindow) error {
	return v.validate.Struct(window)
}
