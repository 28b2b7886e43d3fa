package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// BCP 47 style primary tag, optionally with a region subtag (en, he, zh-CN).
var langCodeRe = regexp.MustCompile(`^[a-z]{2,3}(-[A-Z]{2})?$`)

// RegisterLangCode installs the "langcode" tag on gin's binding validator.
func RegisterLangCode() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("langcode", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return langCodeRe.MatchString(value)
	})
}
