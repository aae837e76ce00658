package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Mobile numbers are stored as dialable strings: optional +, 7-15 digits.
var mobileRe = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

func registerCustomRules(v *validator.Validate) {
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobileRe.MatchString(fl.Field().String())
	})
}
