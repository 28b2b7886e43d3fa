package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/translationhub/server/pkg/validation"
)

// bindingDetails turns a binding failure into field-level messages. Non
// validator errors (malformed JSON, wrong types) pass through as-is.
func bindingDetails(err error) any {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		if fieldMessages := validation.CustomMessage(e.Field()); fieldMessages != nil {
			if msg, exists := fieldMessages[e.Tag()]; exists {
				messages = append(messages, msg)
				continue
			}
		}
		messages = append(messages, validation.DefaultMessage(e.Field(), e.Tag()))
	}
	return messages
}
