// Package dto provides data transfer objects for the deletion HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/piivault/internal/validation"
)

// SubmitDeletionRequest asks for the erasure of one subject.
type SubmitDeletionRequest struct {
	SubjectID string `json:"subject_id"`
}

// Validate checks if the submit request is valid.
func (r *SubmitDeletionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SubjectID, validation.Required, customValidation.UUID),
	)
}
