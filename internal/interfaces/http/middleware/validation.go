package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/libsys/acquisitions/internal/domain/orders"
)

// RegisterValidators installs custom binding validators on gin's validator
// engine. Must be called once before the engine serves requests.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("ordernumber", func(fl validator.FieldLevel) bool {
		return orders.IsValidNumber(fl.Field().String())
	})
}
