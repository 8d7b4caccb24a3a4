package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/database"
	deletionDomain "github.com/allisson/piivault/internal/deletion/domain"
	apperrors "github.com/allisson/piivault/internal/errors"
)

// MySQLDeletionRequestRepository implements deletion request persistence for
// MySQL. UUIDs are stored as BINARY(16); a unique index on a generated column
// that is non-NULL only while pending keeps one pending request per subject.
type MySQLDeletionRequestRepository struct {
	db *sql.DB
}

// NewMySQLDeletionRequestRepository creates a new MySQL deletion request repository.
func NewMySQLDeletionRequestRepository(db *sql.DB) *MySQLDeletionRequestRepository {
	return &MySQLDeletionRequestRepository{db: db}
}

func (m *MySQLDeletionRequestRepository) Create(
	ctx context.Context,
	request *deletionDomain.DeletionRequest,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := request.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal deletion request id")
	}
	subjectID, err := request.SubjectID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal deletion request subject_id")
	}

	query := `INSERT INTO deletion_requests (id, subject_id, state, requested_at, processed_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, subjectID, request.State, request.RequestedAt, request.ProcessedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return deletionDomain.ErrPendingRequestExists
		}
		return apperrors.Wrap(err, "failed to create deletion request")
	}
	return nil
}

func (m *MySQLDeletionRequestRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*deletionDomain.DeletionRequest, error) {
	querier := database.GetTx(ctx, m.db)

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal deletion request id")
	}

	query := `SELECT id, subject_id, state, requested_at, processed_at
			  FROM deletion_requests
			  WHERE id = ?`

	return scanMySQLRequest(querier.QueryRowContext(ctx, query, idBinary))
}

func (m *MySQLDeletionRequestRepository) GetPendingBySubject(
	ctx context.Context,
	subjectID uuid.UUID,
) (*deletionDomain.DeletionRequest, error) {
	querier := database.GetTx(ctx, m.db)

	subjectIDBinary, err := subjectID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal subject_id")
	}

	query := `SELECT id, subject_id, state, requested_at, processed_at
			  FROM deletion_requests
			  WHERE subject_id = ? AND state = ?`

	return scanMySQLRequest(querier.QueryRowContext(ctx, query, subjectIDBinary, deletionDomain.StatePending))
}

func (m *MySQLDeletionRequestRepository) ListBySubject(
	ctx context.Context,
	subjectID uuid.UUID,
) ([]*deletionDomain.DeletionRequest, error) {
	querier := database.GetTx(ctx, m.db)

	subjectIDBinary, err := subjectID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal subject_id")
	}

	query := `SELECT id, subject_id, state, requested_at, processed_at
			  FROM deletion_requests
			  WHERE subject_id = ?
			  ORDER BY requested_at DESC, id DESC`

	rows, err := querier.QueryContext(ctx, query, subjectIDBinary)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list deletion requests")
	}
	return collectRequests(rows, scanMySQLRequest)
}

func (m *MySQLDeletionRequestRepository) ListPending(
	ctx context.Context,
	limit int,
) ([]*deletionDomain.DeletionRequest, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, subject_id, state, requested_at, processed_at
			  FROM deletion_requests
			  WHERE state = ?
			  ORDER BY requested_at ASC, id ASC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, deletionDomain.StatePending, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list pending deletion requests")
	}
	return collectRequests(rows, scanMySQLRequest)
}

// UpdateState is a compare-and-swap on the state column.
func (m *MySQLDeletionRequestRepository) UpdateState(
	ctx context.Context,
	id uuid.UUID,
	from, to deletionDomain.State,
	processedAt *time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal deletion request id")
	}

	query := `UPDATE deletion_requests SET state = ?, processed_at = ?
			  WHERE id = ? AND state = ?`

	result, err := querier.ExecContext(ctx, query, to, processedAt, idBinary, from)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to update deletion request state")
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get updated deletion request count")
	}
	return n == 1, nil
}

func scanMySQLRequest(row rowScanner) (*deletionDomain.DeletionRequest, error) {
	var request deletionDomain.DeletionRequest
	var idBinary, subjectIDBinary []byte
	var processedAt sql.NullTime

	err := row.Scan(&idBinary, &subjectIDBinary, &request.State, &request.RequestedAt, &processedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, deletionDomain.ErrDeletionRequestNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan deletion request")
	}

	if err := request.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal deletion request id")
	}
	if err := request.SubjectID.UnmarshalBinary(subjectIDBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal deletion request subject_id")
	}
	return normalize(&request, processedAt), nil
}
