// Package validation provides custom validation rules for request DTOs.
package validation

import (
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/piivault/internal/errors"
)

// MaxPurposeLength mirrors the consents.purpose column width.
const MaxPurposeLength = 255

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// UUID validates that a string parses as a UUID.
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)

// Purpose is the rule set applied to consent purposes.
var Purpose = []validation.Rule{
	validation.Required,
	NotBlank,
	NoWhitespace,
	validation.RuneLength(1, MaxPurposeLength),
}

// UniqueStrings validates that a string slice holds no duplicates.
var UniqueStrings = validation.By(func(value interface{}) error {
	values, ok := value.([]string)
	if !ok {
		return validation.NewError("validation_unique_type", "must be a list of strings")
	}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return validation.NewError("validation_unique", "must not contain duplicates")
		}
		seen[v] = struct{}{}
	}
	return nil
})
