package payment

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/TinasheMavura/SmileCheckout/app/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Zimbabwean mobile-money numbers: 263 or 0 prefix, then 7XXXXXXXX.
	ecocashPhonePattern = regexp.MustCompile(`^(263|0)7[0-9]{8}$`)
	cardPANPattern      = regexp.MustCompile(`^[0-9]{13,19}$`)
	cardExpMonthPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)
	cardExpYearPattern  = regexp.MustCompile(`^[0-9]{2,4}$`)
	cardCVVPattern      = regexp.MustCompile(`^[0-9]{3,4}$`)
)

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func newIntentValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("ecocash_phone", func(fl validator.FieldLevel) bool {
		return ecocashPhonePattern.MatchString(stripWhitespace(fl.Field().String()))
	})
	_ = v.RegisterValidation("card_pan", func(fl validator.FieldLevel) bool {
		return cardPANPattern.MatchString(stripWhitespace(fl.Field().String()))
	})
	_ = v.RegisterValidation("card_exp_month", func(fl validator.FieldLevel) bool {
		return cardExpMonthPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("card_exp_year", func(fl validator.FieldLevel) bool {
		return cardExpYearPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("card_cvv", func(fl validator.FieldLevel) bool {
		return cardCVVPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return models.IsValidPaymentMethod(fl.Field().String())
	})

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// validateIntent runs struct validation and converts the first failure into a
// field-level ValidationError, before any ledger or gateway interaction.
func (s *Service) validateIntent(intent any) error {
	if err := s.validate.Struct(intent); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return &ValidationError{
				Field:   first.Field(),
				Message: validationMessage(first),
			}
		}
		return &ValidationError{Field: "intent", Message: err.Error()}
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "ecocash_phone":
		return "must be a valid Zimbabwean mobile number"
	case "card_pan":
		return "must be a valid card number"
	case "card_exp_month":
		return "must be a month between 01 and 12"
	case "card_exp_year":
		return "must be a 2-4 digit year"
	case "card_cvv":
		return "must be a 3-4 digit security code"
	default:
		return "is invalid"
	}
}

// normalizeExpiryYear pads a 2-digit expiry year to 4 digits ("27" -> "2027").
func normalizeExpiryYear(year string) string {
	if len(year) == 2 {
		return "20" + year
	}
	return year
}
