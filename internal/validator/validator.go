// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Register registers all custom validators with the Gin binding engine.
// decimal.Decimal needs a custom type func: without one the engine walks
// it as a nested struct and field-level tags on it never run.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterCustomTypeFunc(decimalAsString, decimal.Decimal{})
		_ = v.RegisterValidation("start_weekday", validateStartWeekday)
		_ = v.RegisterValidation("cycle_duration", validateCycleDuration)
		_ = v.RegisterValidation("positive_amount", validatePositiveAmount)
	}
}

// decimalAsString exposes decimal.Decimal to the engine as its string form.
func decimalAsString(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// validateStartWeekday accepts 0 (Sunday) through 6 (Saturday).
func validateStartWeekday(fl validator.FieldLevel) bool {
	wd := fl.Field().Int()
	return wd >= 0 && wd <= 6
}

// validateCycleDuration accepts cycle lengths of 7 through 28 days.
func validateCycleDuration(fl validator.FieldLevel) bool {
	days := fl.Field().Int()
	return days >= 7 && days <= 28
}

// validatePositiveAmount accepts strictly positive decimal amounts. The
// field arrives as the string produced by decimalAsString.
func validatePositiveAmount(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.IsPositive()
}
