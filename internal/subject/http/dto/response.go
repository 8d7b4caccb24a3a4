package dto

import (
	"time"

	"github.com/allisson/piivault/internal/canonical"
	consentDto "github.com/allisson/piivault/internal/consent/http/dto"
	subjectDomain "github.com/allisson/piivault/internal/subject/domain"
)

// DecryptErrorMessage replaces the PII of a subject whose envelope could not be opened.
const DecryptErrorMessage = "Unable to decrypt PII data"

// SubjectResponse represents a subject in API responses. The envelope is
// never exposed.
type SubjectResponse struct {
	ID           string             `json:"id"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	AnonymizedAt *time.Time         `json:"anonymized_at,omitempty"`
	PII          canonical.Document `json:"pii,omitempty"`
}

// MapSubjectToResponse converts a domain subject to an API response.
func MapSubjectToResponse(subject *subjectDomain.Subject) SubjectResponse {
	return SubjectResponse{
		ID:           subject.ID.String(),
		CreatedAt:    subject.CreatedAt,
		UpdatedAt:    subject.UpdatedAt,
		AnonymizedAt: subject.AnonymizedAt,
	}
}

func piiOrSentinel(pii canonical.Document, failed bool) canonical.Document {
	if failed {
		return canonical.Document{"error": DecryptErrorMessage}
	}
	return pii
}

// MapSubjectViewToResponse converts a read result to an API response.
func MapSubjectViewToResponse(view *subjectDomain.SubjectView) SubjectResponse {
	response := MapSubjectToResponse(view.Subject)
	response.PII = piiOrSentinel(view.PII, view.DecryptFailed)
	return response
}

// ListSubjectsResponse represents a paginated list of subjects.
type ListSubjectsResponse struct {
	Data []SubjectResponse `json:"data"`
}

// MapSubjectsToListResponse converts domain subjects to a list response.
func MapSubjectsToListResponse(subjects []*subjectDomain.Subject) ListSubjectsResponse {
	data := make([]SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		data = append(data, MapSubjectToResponse(subject))
	}
	return ListSubjectsResponse{Data: data}
}

// ExportResponse is the data package of one subject.
type ExportResponse struct {
	Subject  SubjectResponse              `json:"subject"`
	Consents []consentDto.ConsentResponse `json:"consents"`
	PII      canonical.Document           `json:"pii"`
}

// MapExportToResponse converts an export to an API response.
func MapExportToResponse(export *subjectDomain.Export) ExportResponse {
	return ExportResponse{
		Subject:  MapSubjectToResponse(export.Subject),
		Consents: consentDto.MapConsentsToListResponse(export.Consents).Data,
		PII:      piiOrSentinel(export.PII, export.DecryptFailed),
	}
}
