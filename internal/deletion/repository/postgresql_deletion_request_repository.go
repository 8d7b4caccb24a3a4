// Package repository implements deletion request persistence for PostgreSQL,
// MySQL and process memory.
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

// PostgreSQLDeletionRequestRepository implements deletion request persistence
// for PostgreSQL. A partial unique index keeps one pending request per subject.
type PostgreSQLDeletionRequestRepository struct {
	db *sql.DB
}

// NewPostgreSQLDeletionRequestRepository creates a new PostgreSQL deletion request repository.
func NewPostgreSQLDeletionRequestRepository(db *sql.DB) *PostgreSQLDeletionRequestRepository {
	return &PostgreSQLDeletionRequestRepository{db: db}
}

func (p *PostgreSQLDeletionRequestRepository) Create(
	ctx context.Context,
	request *deletionDomain.DeletionRequest,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO deletion_requests (id, subject_id, state, requested_at, processed_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		request.ID,
		request.SubjectID,
		request.State,
		request.RequestedAt,
		request.ProcessedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return deletionDomain.ErrPendingRequestExists
		}
		return apperrors.Wrap(err, "failed to create deletion request")
	}
	return nil
}

func (p *PostgreSQLDeletionRequestRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*deletionDomain.DeletionRequest, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, subject_id, state, requested_at, processed_at
			  FROM deletion_requests
			  WHERE id = $1`

	return scanRequest(querier.QueryRowContext(ctx, query, id))
}

func (p *PostgreSQLDeletionRequestRepository) GetPendingBySubject(
	ctx context.Context,
	subjectID uuid.UUID,
) (*deletionDomain.DeletionRequest, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, subject_id, state, requested_at, processed_at
			  FROM deletion_requests
			  WHERE subject_id = $1 AND state = $2`

	return scanRequest(querier.QueryRowContext(ctx, query, subjectID, deletionDomain.StatePending))
}

func (p *PostgreSQLDeletionRequestRepository) ListBySubject(
	ctx context.Context,
	subjectID uuid.UUID,
) ([]*deletionDomain.DeletionRequest, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, subject_id, state, requested_at, processed_at
			  FROM deletion_requests
			  WHERE subject_id = $1
			  ORDER BY requested_at DESC, id DESC`

	rows, err := querier.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list deletion requests")
	}
	return collectRequests(rows, scanRequest)
}

func (p *PostgreSQLDeletionRequestRepository) ListPending(
	ctx context.Context,
	limit int,
) ([]*deletionDomain.DeletionRequest, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, subject_id, state, requested_at, processed_at
			  FROM deletion_requests
			  WHERE state = $1
			  ORDER BY requested_at ASC, id ASC
			  LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, deletionDomain.StatePending, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list pending deletion requests")
	}
	return collectRequests(rows, scanRequest)
}

// UpdateState is a compare-and-swap on the state column.
func (p *PostgreSQLDeletionRequestRepository) UpdateState(
	ctx context.Context,
	id uuid.UUID,
	from, to deletionDomain.State,
	processedAt *time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE deletion_requests SET state = $1, processed_at = $2
			  WHERE id = $3 AND state = $4`

	result, err := querier.ExecContext(ctx, query, to, processedAt, id, from)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to update deletion request state")
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get updated deletion request count")
	}
	return n == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*deletionDomain.DeletionRequest, error) {
	var request deletionDomain.DeletionRequest
	var processedAt sql.NullTime

	err := row.Scan(&request.ID, &request.SubjectID, &request.State, &request.RequestedAt, &processedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, deletionDomain.ErrDeletionRequestNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan deletion request")
	}
	return normalize(&request, processedAt), nil
}

func normalize(request *deletionDomain.DeletionRequest, processedAt sql.NullTime) *deletionDomain.DeletionRequest {
	request.RequestedAt = request.RequestedAt.UTC()
	if processedAt.Valid {
		t := processedAt.Time.UTC()
		request.ProcessedAt = &t
	}
	return request
}

func collectRequests(
	rows *sql.Rows,
	scan func(rowScanner) (*deletionDomain.DeletionRequest, error),
) ([]*deletionDomain.DeletionRequest, error) {
	defer func() {
		_ = rows.Close()
	}()

	requests := make([]*deletionDomain.DeletionRequest, 0)
	for rows.Next() {
		request, err := scan(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate deletion requests")
	}
	return requests, nil
}
