package model

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// required is validation.Required that also rejects whitespace-only strings,
// which the store would otherwise save as empty values.
func required(message string) []validation.Rule {
	return []validation.Rule{
		validation.Required.Error(message),
		validation.By(func(value interface{}) error {
			if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
				return errors.New(message)
			}
			return nil
		}),
	}
}
