package validator

import (
	"servly/pkg/logger"
	"servly/pkg/model"
	"servly/pkg/validation"
)

type ProviderValidator struct {
	validate *validation.Validator
}

func NewProviderValidator(log *logger.Logger) *ProviderValidator {
	v := validation.New(log)
	log.Info("Provider validator initialized successfully")
	return &ProviderValidator{validate: v}
}

func (v *ProviderValidator) ValidateApplication(app *model.ProviderApplication) error {
	return v.validate.Struct(app)
}
