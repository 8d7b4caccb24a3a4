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

// MySQLConsentRepository implements consent persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLConsentRepository struct {
	db *sql.DB
}

// NewMySQLConsentRepository creates a new MySQL consent repository.
func NewMySQLConsentRepository(db *sql.DB) *MySQLConsentRepository {
	return &MySQLConsentRepository{db: db}
}

// Upsert relies on the unique (subject_id, purpose) index.
func (m *MySQLConsentRepository) Upsert(ctx context.Context, consent *consentDomain.Consent) error {
	querier := database.GetTx(ctx, m.db)

	id, err := consent.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal consent id")
	}
	subjectID, err := consent.SubjectID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal consent subject_id")
	}

	query := `INSERT INTO consents (id, subject_id, purpose, granted, changed_at)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE granted = VALUES(granted), changed_at = VALUES(changed_at)`

	_, err = querier.ExecContext(ctx, query, id, subjectID, consent.Purpose, consent.Granted, consent.Timestamp)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert consent")
	}
	return nil
}

func (m *MySQLConsentRepository) Get(
	ctx context.Context,
	subjectID uuid.UUID,
	purpose string,
) (*consentDomain.Consent, error) {
	querier := database.GetTx(ctx, m.db)

	subjectIDBinary, err := subjectID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal subject_id")
	}

	query := `SELECT id, subject_id, purpose, granted, changed_at
			  FROM consents
			  WHERE subject_id = ? AND purpose = ?`

	return scanMySQLConsent(querier.QueryRowContext(ctx, query, subjectIDBinary, purpose))
}

func (m *MySQLConsentRepository) GetByID(ctx context.Context, id uuid.UUID) (*consentDomain.Consent, error) {
	querier := database.GetTx(ctx, m.db)

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal consent id")
	}

	query := `SELECT id, subject_id, purpose, granted, changed_at
			  FROM consents
			  WHERE id = ?`

	return scanMySQLConsent(querier.QueryRowContext(ctx, query, idBinary))
}

func (m *MySQLConsentRepository) ListBySubject(
	ctx context.Context,
	subjectID uuid.UUID,
) ([]*consentDomain.Consent, error) {
	querier := database.GetTx(ctx, m.db)

	subjectIDBinary, err := subjectID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal subject_id")
	}

	query := `SELECT id, subject_id, purpose, granted, changed_at
			  FROM consents
			  WHERE subject_id = ?
			  ORDER BY purpose ASC`

	rows, err := querier.QueryContext(ctx, query, subjectIDBinary)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list consents")
	}
	defer func() {
		_ = rows.Close()
	}()

	consents := make([]*consentDomain.Consent, 0)
	for rows.Next() {
		consent, err := scanMySQLConsent(rows)
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

// RevokeAll is a single conditional UPDATE. MySQL reports changed rows, which
// equals the number of consents flipped.
func (m *MySQLConsentRepository) RevokeAll(
	ctx context.Context,
	subjectID uuid.UUID,
	at time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	subjectIDBinary, err := subjectID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal subject_id")
	}

	query := `UPDATE consents SET granted = false, changed_at = ?
			  WHERE subject_id = ? AND granted = true`

	result, err := querier.ExecContext(ctx, query, at, subjectIDBinary)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to revoke consents")
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get revoked consent count")
	}
	return n, nil
}

func scanMySQLConsent(row rowScanner) (*consentDomain.Consent, error) {
	var consent consentDomain.Consent
	var idBinary, subjectIDBinary []byte

	err := row.Scan(&idBinary, &subjectIDBinary, &consent.Purpose, &consent.Granted, &consent.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, consentDomain.ErrConsentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan consent")
	}

	if err := consent.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal consent id")
	}
	if err := consent.SubjectID.UnmarshalBinary(subjectIDBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal consent subject_id")
	}
	consent.Timestamp = consent.Timestamp.UTC()
	return &consent, nil
}
