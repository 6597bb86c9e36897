package handler

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"nbrb-rates/internal/entity"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var currencyCodeRegexp = regexp.MustCompile(`^[A-Za-z]{3}$`)

func validateCurrencyCode(fl validator.FieldLevel) bool {
	return currencyCodeRegexp.MatchString(fl.Field().String())
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(entity.DateLayout, fl.Field().String())
	return err == nil
}

// RegisterValidations adds the currency_code and calendar_date rules to gin's validator.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("currency_code", validateCurrencyCode); err != nil {
		return fmt.Errorf("register currency_code: %w", err)
	}
	if err := v.RegisterValidation("calendar_date", validateCalendarDate); err != nil {
		return fmt.Errorf("register calendar_date: %w", err)
	}
	return nil
}

// failedField returns the struct field name of the first failed rule in err.
func failedField(err error) (string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "", false
	}
	return verrs[0].StructField(), true
}
