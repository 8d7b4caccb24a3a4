package dto

import (
	"time"

	consentDomain "github.com/allisson/piivault/internal/consent/domain"
)

// ConsentResponse represents a consent in API responses.
type ConsentResponse struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	Purpose   string    `json:"purpose"`
	Granted   bool      `json:"granted"`
	Timestamp time.Time `json:"timestamp"`
}

// MapConsentToResponse converts a domain consent to an API response.
func MapConsentToResponse(consent *consentDomain.Consent) ConsentResponse {
	return ConsentResponse{
		ID:        consent.ID.String(),
		SubjectID: consent.SubjectID.String(),
		Purpose:   consent.Purpose,
		Granted:   consent.Granted,
		Timestamp: consent.Timestamp,
	}
}

// ListConsentsResponse represents the consents of one subject.
type ListConsentsResponse struct {
	Data []ConsentResponse `json:"data"`
}

// MapConsentsToListResponse converts domain consents to a list response.
func MapConsentsToListResponse(consents []*consentDomain.Consent) ListConsentsResponse {
	data := make([]ConsentResponse, 0, len(consents))
	for _, consent := range consents {
		data = append(data, MapConsentToResponse(consent))
	}
	return ListConsentsResponse{Data: data}
}

// RevokeAllResponse reports how many consents a bulk revocation flipped.
type RevokeAllResponse struct {
	Revoked int64 `json:"revoked"`
}
