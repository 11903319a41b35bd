package validator

import (
	"servly/pkg/logger"
	"servly/pkg/model"
	"servly/pkg/validation"
)

type BookingValidator struct {
	validate *validation.Validator
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validation.New(log)

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// ValidateCreate checks the request shape only. An inverted interval is
// left to the scheduling engine, which reports it as ErrInvalidInterval.
func (v *BookingValidator) ValidateCreate(req *model.BookingCreate) error {
	return v.validate.Struct(req)
}

func (v *BookingValidator) ValidateStatusUpdate(req *model.BookingStatusUpdate) error {
	return v.validate.Struct(req)
}

// Validate checks a fully built booking before it is stored.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	return v.validate.Struct(booking)
}
