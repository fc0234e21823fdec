// file: internals/helpers/validator.go
package helper

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^1[358]\d{9}$|^147\d{8}$|^179\d{8}$`)

// NewValidator builds the request validator with the domain rules
// registered. "cnphone" matches the mobile-number ranges the SMS gateway
// can deliver to.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("cnphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}
