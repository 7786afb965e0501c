package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/utils"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return models.Weekday(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return utils.ValidateTimeFormat(fl.Field().String())
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return slices.Contains(constants.Categories, fl.Field().String())
	})
	_ = v.RegisterValidation("mood", func(fl validator.FieldLevel) bool {
		return slices.Contains(constants.Moods, fl.Field().String())
	})
	_ = v.RegisterValidation("timezone", func(fl validator.FieldLevel) bool {
		return utils.ValidateTimezone(fl.Field().String())
	})
	return v
}

// Struct validates s against its `validate` tags and converts the first
// failure into an errors.ValidationError naming the JSON field.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &errors.ValidationError{Field: fieldPath(fe), Message: describe(fe)}
}

// ValidateDraft normalises and validates habit input in place.
func ValidateDraft(d *models.HabitDraft) error {
	d.Title = strings.TrimSpace(d.Title)
	d.Category = strings.ToLower(strings.TrimSpace(d.Category))
	d.RecurrenceDays = models.NormalizeWeekdays(d.RecurrenceDays)
	return Struct(d)
}

// MoodInput is a single mood check-in request.
type MoodInput struct {
	Mood       string `json:"mood" validate:"required,mood"`
	Motivation int    `json:"motivation" validate:"gte=1,lte=5"`
	Note       string `json:"note,omitempty" validate:"max=500"`
}

// UserSettingsInput carries user profile changes. Nil fields are left alone.
type UserSettingsInput struct {
	Timezone     *string `json:"timezone,omitempty" validate:"omitempty,timezone"`
	VacationMode *bool   `json:"is_vacation,omitempty"`
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must contain at most %s items", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "weekday":
		return fmt.Sprintf("invalid weekday %q (use Sun, Mon, Tue, Wed, Thu, Fri or Sat)", fe.Value())
	case "clock":
		return fmt.Sprintf("invalid time %q (expected HH:MM)", fe.Value())
	case "category":
		return fmt.Sprintf("unknown category %q (use one of %s)", fe.Value(), strings.Join(constants.Categories, ", "))
	case "mood":
		return fmt.Sprintf("unknown mood %q (use one of %s)", fe.Value(), strings.Join(constants.Moods, ", "))
	case "timezone":
		return fmt.Sprintf("invalid timezone %q", fe.Value())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
