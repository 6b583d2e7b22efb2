package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	appshared "github.com/teashop/backend/internal/application/shared"
)

// UseAppValidator makes gin's request binding check the same `validate` tags
// and custom rules the services use. It reports false when gin's default
// engine has been swapped for something that is not a validator.Validate.
func UseAppValidator() bool {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return false
	}
	v.SetTagName("validate")
	appshared.RegisterValidations(v)
	return true
}
