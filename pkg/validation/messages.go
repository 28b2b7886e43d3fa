package validation

import (
	"fmt"
	"strings"
)

// CustomMessage returns field-specific validation messages, keyed by tag.
func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"Email": {
			"required": "email is required",
			"email":    "email is not a valid address",
		},
		"Password": {
			"required": "password is required",
			"min":      "password must be at least 6 characters",
		},
		"Text": {
			"required": "text is required",
		},
		"TargetLang": {
			"required": "targetLang is required",
			"langcode": "targetLang is not a recognized language code",
		},
		"SourceLang": {
			"langcode": "sourceLang is not a recognized language code",
		},
	}
	return customValidationMessages[field]
}

func DefaultMessage(field, tag string) string {
	field = strings.ToLower(field)

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s is below the minimum length or value", field)
	case "max":
		return fmt.Sprintf("%s exceeds the maximum length or value", field)
	case "len":
		return fmt.Sprintf("%s must have an exact length", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "base64":
		return fmt.Sprintf("%s must be base64 encoded", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of the allowed values", field)
	case "langcode":
		return fmt.Sprintf("%s is not a recognized language code", field)
	default:
		return fmt.Sprintf("%s is invalid: %s", field, tag)
	}
}
