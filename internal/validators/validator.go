package validators

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/go-playground/validator/v10"
)

var websitePattern = regexp.MustCompile(`^(https?://)?([\w-]+\.)+[\w-]{2,}(/[\w\-./?%&=]*)?$`)

// Validator adapts go-playground/validator to echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their JSON names
// and knows the domain tags "website" and "platform".
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("website", func(fl validator.FieldLevel) bool {
		site := fl.Field().String()
		return site == "" || websitePattern.MatchString(site)
	})
	_ = v.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
		return models.IsPlatform(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Validate checks i and returns a ValidationError describing the first failure.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return models.NewValidationError(Message(verrs[0]))
	}
	return models.NewValidationError("invalid payload")
}

// Message turns a field error into a human-readable sentence.
func Message(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		other, value, _ := strings.Cut(param, " ")
		return field + " is required when " + lowerFirst(other) + " is " + value
	case "email":
		return "Please provide a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "website":
		return "Please enter a valid website URL"
	case "platform":
		return fmt.Sprintf("%v is not a supported social media platform", fe.Value())
	case "min":
		if fe.Kind() == reflect.Slice {
			return field + " must contain at least " + param + " item(s)"
		}
		return field + " must be at least " + param + " characters long"
	case "max":
		return field + " must be at most " + param + " characters long"
	case "oneof":
		return field + " must be one of: " + strings.Join(strings.Fields(param), ", ")
	default:
		return fmt.Sprintf("%s failed validation '%s'", field, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
