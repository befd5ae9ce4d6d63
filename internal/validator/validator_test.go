package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	validatorlib "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func engine(t *testing.T) *validatorlib.Validate {
	t.Helper()
	Register()
	v, ok := binding.Validator.Engine().(*validatorlib.Validate)
	if !ok {
		t.Fatal("gin binding engine is not go-playground/validator")
	}
	return v
}

func TestStartWeekdayValidation(t *testing.T) {
	v := engine(t)

	for wd := 0; wd <= 6; wd++ {
		if err := v.Var(wd, "start_weekday"); err != nil {
			t.Errorf("weekday %d should be valid: %v", wd, err)
		}
	}
	for _, wd := range []int{-1, 7, 100} {
		if err := v.Var(wd, "start_weekday"); err == nil {
			t.Errorf("weekday %d should be rejected", wd)
		}
	}
}

func TestCycleDurationValidation(t *testing.T) {
	v := engine(t)

	for _, days := range []int{7, 14, 28} {
		if err := v.Var(days, "cycle_duration"); err != nil {
			t.Errorf("duration %d should be valid: %v", days, err)
		}
	}
	for _, days := range []int{0, 6, 29, 365} {
		if err := v.Var(days, "cycle_duration"); err == nil {
			t.Errorf("duration %d should be rejected", days)
		}
	}
}

func TestPositiveAmountValidation(t *testing.T) {
	v := engine(t)

	if err := v.Var(decimal.NewFromFloat(0.01), "positive_amount"); err != nil {
		t.Errorf("positive amount should be valid: %v", err)
	}
	if err := v.Var(decimal.Zero, "positive_amount"); err == nil {
		t.Error("zero amount should be rejected")
	}
	if err := v.Var(decimal.NewFromInt(-5), "positive_amount"); err == nil {
		t.Error("negative amount should be rejected")
	}
	if err := v.Var("not-a-decimal", "positive_amount"); err == nil {
		t.Error("non-decimal value should be rejected")
	}
}

// Tags on decimal struct fields must fire the same way binding does; the
// engine only sees them through the registered custom type func.
func TestPositiveAmountOnStructField(t *testing.T) {
	v := engine(t)

	type form struct {
		Amount decimal.Decimal `binding:"positive_amount"`
	}

	if err := v.Struct(form{Amount: decimal.NewFromInt(10)}); err != nil {
		t.Errorf("positive amount field should be valid: %v", err)
	}
	if err := v.Struct(form{Amount: decimal.Zero}); err == nil {
		t.Error("zero amount field should be rejected")
	}
	if err := v.Struct(form{Amount: decimal.NewFromInt(-3)}); err == nil {
		t.Error("negative amount field should be rejected")
	}
}
