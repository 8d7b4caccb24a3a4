package dto

import (
	"time"

	deletionDomain "github.com/allisson/piivault/internal/deletion/domain"
)

// DeletionRequestResponse represents a deletion request in API responses.
type DeletionRequestResponse struct {
	ID          string     `json:"id"`
	SubjectID   string     `json:"subject_id"`
	State       string     `json:"state"`
	RequestedAt time.Time  `json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// MapDeletionRequestToResponse converts a domain deletion request to an API response.
func MapDeletionRequestToResponse(request *deletionDomain.DeletionRequest) DeletionRequestResponse {
	return DeletionRequestResponse{
		ID:          request.ID.String(),
		SubjectID:   request.SubjectID.String(),
		State:       string(request.State),
		RequestedAt: request.RequestedAt,
		ProcessedAt: request.ProcessedAt,
	}
}

// ListDeletionRequestsResponse represents a list of deletion requests.
type ListDeletionRequestsResponse struct {
	Data []DeletionRequestResponse `json:"data"`
}

// MapDeletionRequestsToListResponse converts domain deletion requests to a list response.
func MapDeletionRequestsToListResponse(requests []*deletionDomain.DeletionRequest) ListDeletionRequestsResponse {
	data := make([]DeletionRequestResponse, 0, len(requests))
	for _, request := range requests {
		data = append(data, MapDeletionRequestToResponse(request))
	}
	return ListDeletionRequestsResponse{Data: data}
}

// ProcessResponse reports the outcome of processing one request.
type ProcessResponse struct {
	Completed bool                    `json:"completed"`
	Request   DeletionRequestResponse `json:"request"`
}

// BatchResponse reports the tally of a batch run.
type BatchResponse struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// MapBatchResultToResponse converts a batch tally to an API response.
func MapBatchResultToResponse(result deletionDomain.BatchResult) BatchResponse {
	return BatchResponse{
		Total:     result.Total,
		Processed: result.Processed,
		Failed:    result.Failed,
		Skipped:   result.Skipped,
	}
}

// SafetyResponse reports whether a subject has no pending deletion request.
type SafetyResponse struct {
	SubjectID string `json:"subject_id"`
	Safe      bool   `json:"safe"`
}
