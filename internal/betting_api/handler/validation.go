package handler

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	minStake        = decimal.New(1, -2)
	maxStakeExcl    = decimal.New(1, 12)
	maxStakeFracDig = int32(2)
)

// RegisterValidators adds the "stake" and "notblank" rules to gin's validator.
// decimal.Decimal fields are validated through their string form.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := v.RegisterValidation("stake", validateStake); err != nil {
		return err
	}
	return v.RegisterValidation("notblank", validateNotBlank)
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// validateStake accepts amounts of at least 0.01 with at most 12 integer and 2 fraction digits
func validateStake(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return isValidStake(d)
}

func isValidStake(d decimal.Decimal) bool {
	if d.LessThan(minStake) || !d.LessThan(maxStakeExcl) {
		return false
	}
	return d.Exponent() >= -maxStakeFracDig
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.String && strings.TrimSpace(fl.Field().String()) != ""
}
