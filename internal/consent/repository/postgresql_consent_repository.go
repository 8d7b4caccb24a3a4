// Package repository implements consent persistence for PostgreSQL, MySQL and
// process memory.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	consentDomain "github.com/allisson/piivault/internal/consent/domain"
	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
)

// PostgreSQLConsentRepository implements consent persistence for PostgreSQL.
type PostgreSQLConsentRepository struct {
	db *sql.DB
}

// NewPostgreSQLConsentRepository creates a new PostgreSQL consent repository.
func NewPostgreSQLConsentRepository(db *sql.DB) *PostgreSQLConsentRepository {
	return &PostgreSQLConsentRepository{db: db}
}

// Upsert relies on the unique (subject_id, purpose) index.
func (p *PostgreSQLConsentRepository) Upsert(ctx context.Context, consent *consentDomain.Consent) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO consents (id, subject_id, purpose, granted, changed_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (subject_id, purpose)
			  DO UPDATE SET granted = EXCLUDED.granted, changed_at = EXCLUDED.changed_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		consent.ID,
		consent.SubjectID,
		consent.Purpose,
		consent.Granted,
		consent.Timestamp,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert consent")
	}
	return nil
}

func (p *PostgreSQLConsentRepository) Get(
	ctx context.Context,
	subjectID uuid.UUID,
	purpose string,
) (*consentDomain.Consent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, subject_id, purpose, granted, changed_at
			  FROM consents
			  WHERE subject_id = $1 AND purpose = $2`

	return scanConsent(querier.QueryRowContext(ctx, query, subjectID, purpose))
}

func (p *PostgreSQLConsentRepository) GetByID(ctx context.Context, id uuid.UUID) (*consentDomain.Consent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, subject_id, purpose, granted, changed_at
			  FROM consents
			  WHERE id = $1`

	return scanConsent(querier.QueryRowContext(ctx, query, id))
}

func (p *PostgreSQLConsentRepository) ListBySubject(
	ctx context.Context,
	subjectID uuid.UUID,
) ([]*consentDomain.Consent, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, subject_id, purpose, granted, changed_at
			  FROM consents
			  WHERE subject_id = $1
			  ORDER BY purpose ASC`

	rows, err := querier.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list consents")
	}
	defer func() {
		_ = rows.Close()
	}()

	consents := make([]*consentDomain.Consent, 0)
	for rows.Next() {
		consent, err := scanConsent(rows)
		if err != nil {
			return nil, err
		}
		consents = append(consents, consent)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate consents")
	}
	return consents, nil
}

// RevokeAll is a single conditional UPDATE, so it is atomic against
// concurrent grants for the same subject.
func (p *PostgreSQLConsentRepository) RevokeAll(
	ctx context.Context,
	subjectID uuid.UUID,
	at time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE consents SET granted = false, changed_at = $1
			  WHERE subject_id = $2 AND granted = true`

	result, err := querier.ExecContext(ctx, query, at, subjectID)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to revoke consents")
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get revoked consent count")
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConsent(row rowScanner) (*consentDomain.Consent, error) {
	var consent consentDomain.Consent
	err := row.Scan(
		&consent.ID,
		&consent.SubjectID,
		&consent.Purpose,
		&consent.Granted,
		&consent.Timestamp,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, consentDomain.ErrConsentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan consent")
	}
	consent.Timestamp = consent.Timestamp.UTC()
	return &consent, nil
}
