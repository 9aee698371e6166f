// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"renovo/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// Money fields validate as numbers, so gt=0 and friends work on them.
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

		_ = v.RegisterValidation("expense_category", validateExpenseCategory)
		_ = v.RegisterValidation("parent_category", validateParentCategory)
		_ = v.RegisterValidation("phase_type", validatePhaseType)
		_ = v.RegisterValidation("payment_type", validatePaymentType)
		_ = v.RegisterValidation("house_type", validateHouseType)
	}
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

func validateExpenseCategory(fl validator.FieldLevel) bool {
	return models.ExpenseCategory(fl.Field().String()).Valid()
}

func validateParentCategory(fl validator.FieldLevel) bool {
	return models.ParentCategory(fl.Field().String()).Valid()
}

func validatePhaseType(fl validator.FieldLevel) bool {
	return models.PhaseType(fl.Field().String()).Valid()
}

func validatePaymentType(fl validator.FieldLevel) bool {
	return models.PaymentType(fl.Field().String()).Valid()
}

func validateHouseType(fl validator.FieldLevel) bool {
	return models.HouseType(fl.Field().String()).Valid()
}
