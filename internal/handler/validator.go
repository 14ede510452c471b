package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/account-recovery/internal/utils"
)

// Validator adapts go-playground/validator to Echo's Validator
// interface. Request DTOs declare their rules with `validate` tags;
// the custom "strongpassword" rule applies the same policy the
// recovery service re-checks internally.
type Validator struct{ v *validator.Validate }

func NewValidator() *Validator {
	v := validator.New()
	// Registration only fails for an empty tag name.
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return utils.ValidatePasswordStrength(fl.Field().String()) == nil
	})
	return &Validator{v: v}
}

// Validate checks a bound DTO and converts the first violation into a
// human-readable error for the 400 response body.
func (va *Validator) Validate(i interface{}) error {
	err := va.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldError(verrs[0])
	}
	return err
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fieldName(fe))
	case "email":
		return errors.New("invalid email format")
	case "strongpassword":
		return utils.ErrWeakPassword
	default:
		return fmt.Errorf("%s is invalid", fieldName(fe))
	}
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "NewPassword":
		return "new_password"
	case "ResetCode":
		return "reset_code"
	default:
		return fe.Field()
	}
}
