// Package dto provides data transfer objects for the subject HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/piivault/internal/canonical"
	customValidation "github.com/allisson/piivault/internal/validation"
)

// WriteSubjectRequest carries PII for a create or update. ID is only read on
// create and lets callers grant consents before the subject exists.
type WriteSubjectRequest struct {
	ID               string             `json:"id,omitempty"`
	PII              canonical.Document `json:"pii"`
	RequiredPurposes []string           `json:"required_purposes,omitempty"`
}

// Validate checks if the write subject request is valid.
func (r *WriteSubjectRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, customValidation.UUID),
		validation.Field(&r.PII, validation.NotNil),
		validation.Field(&r.RequiredPurposes,
			customValidation.UniqueStrings,
			validation.Each(customValidation.Purpose...),
		),
	)
}
