package handler

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidations installs the decimal binding rules used by request
// DTOs on gin's validator engine. Call once before serving.
//
//	dgt0  — decimal strictly greater than zero (quantities, amounts)
//	dgte0 — decimal zero or greater (unit costs, prices)
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("dgt0", decimalGreaterThanZero); err != nil {
		return fmt.Errorf("register dgt0: %w", err)
	}
	if err := v.RegisterValidation("dgte0", decimalNonNegative); err != nil {
		return fmt.Errorf("register dgte0: %w", err)
	}
	return nil
}

func decimalGreaterThanZero(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	return ok && d.IsPositive()
}

func decimalNonNegative(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	return ok && !d.IsNegative()
}
