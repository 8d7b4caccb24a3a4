// Package dto provides data transfer objects for the consent HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/piivault/internal/validation"
)

// SetConsentRequest grants or revokes one purpose for the subject in the URL.
type SetConsentRequest struct {
	Purpose string `json:"purpose"`
	Granted *bool  `json:"granted"`
}

// Validate checks if the set consent request is valid.
func (r *SetConsentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Purpose, customValidation.Purpose...),
		validation.Field(&r.Granted, validation.NotNil),
	)
}
