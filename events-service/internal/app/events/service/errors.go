package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrValidation           = errors.New("validation failed")
	ErrForbidden            = errors.New("access denied")
	ErrEventNotFound        = errors.New("event not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrAnalyticsNotFound    = errors.New("analytics not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAlreadyRegistered    = errors.New("already registered for event")
	ErrNotRegistered        = errors.New("not registered for event")
	ErrOrganizerMembership  = errors.New("organizer cannot leave own event")
	ErrInvalidImage         = errors.New("only jpeg, jpg, png and gif images are allowed")
	ErrImageTooLarge        = errors.New("image exceeds size limit")
	ErrImageNotFound        = errors.New("image not found")
)

// ValidationError описывает первое нарушенное правило. errors.Is(err, ErrValidation) == true.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	switch e.Rule {
	case "required":
		return e.Field + " is required"
	case "datetime":
		return e.Field + " must be a date in YYYY-MM-DD format"
	case "clock":
		return e.Field + " must be a time in HH:MM or HH:MM:SS format"
	case "min":
		return e.Field + " must not be empty"
	case "max":
		return e.Field + " is too long"
	}
	return fmt.Sprintf("%s is %s", e.Field, e.Rule)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

// newValidator настраивает validator: имена полей берутся из тегов form/json,
// правило clock принимает HH:MM и HH:MM:SS.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			if name := strings.Split(f.Tag.Get(tag), ",")[0]; name != "" && name != "-" {
				return name
			}
		}
		return strings.ToLower(f.Name)
	})

	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})

	return v
}

func validateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return &ValidationError{Field: validationErrors[0].Field(), Rule: validationErrors[0].Tag()}
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
