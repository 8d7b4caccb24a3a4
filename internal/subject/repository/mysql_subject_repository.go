package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
	subjectDomain "github.com/allisson/piivault/internal/subject/domain"
)

// MySQLSubjectRepository implements subject persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLSubjectRepository struct {
	db *sql.DB
}

// NewMySQLSubjectRepository creates a new MySQL subject repository.
func NewMySQLSubjectRepository(db *sql.DB) *MySQLSubjectRepository {
	return &MySQLSubjectRepository{db: db}
}

func (m *MySQLSubjectRepository) Create(ctx context.Context, subject *subjectDomain.Subject) error {
	querier := database.GetTx(ctx, m.db)

	id, err := subject.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal subject id")
	}

	query := `INSERT INTO subjects (id, envelope, created_at, updated_at, anonymized_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		subject.Envelope,
		subject.CreatedAt,
		subject.UpdatedAt,
		subject.AnonymizedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return subjectDomain.ErrSubjectAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create subject")
	}
	return nil
}

func (m *MySQLSubjectRepository) Get(ctx context.Context, id uuid.UUID) (*subjectDomain.Subject, error) {
	return m.get(ctx, id, "")
}

func (m *MySQLSubjectRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*subjectDomain.Subject, error) {
	return m.get(ctx, id, " FOR UPDATE")
}

func (m *MySQLSubjectRepository) get(ctx context.Context, id uuid.UUID, lock string) (*subjectDomain.Subject, error) {
	querier := database.GetTx(ctx, m.db)

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal subject id")
	}

	query := `SELECT id, envelope, created_at, updated_at, anonymized_at
			  FROM subjects
			  WHERE id = ?` + lock

	return scanMySQLSubject(querier.QueryRowContext(ctx, query, idBinary))
}

func (m *MySQLSubjectRepository) Update(ctx context.Context, subject *subjectDomain.Subject) error {
	querier := database.GetTx(ctx, m.db)

	id, err := subject.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal subject id")
	}

	query := `UPDATE subjects SET envelope = ?, updated_at = ?, anonymized_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, subject.Envelope, subject.UpdatedAt, subject.AnonymizedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update subject")
	}

	n, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get updated subject count")
	}
	if n == 0 {
		return subjectDomain.ErrSubjectNotFound
	}
	return nil
}

func (m *MySQLSubjectRepository) List(ctx context.Context, offset, limit int) ([]*subjectDomain.Subject, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, envelope, created_at, updated_at, anonymized_at
			  FROM subjects
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list subjects")
	}
	defer func() {
		_ = rows.Close()
	}()

	subjects := make([]*subjectDomain.Subject, 0)
	for rows.Next() {
		subject, err := scanMySQLSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate subjects")
	}
	return subjects, nil
}

func scanMySQLSubject(row rowScanner) (*subjectDomain.Subject, error) {
	var subject subjectDomain.Subject
	var idBinary []byte
	var anonymizedAt sql.NullTime

	err := row.Scan(&idBinary, &subject.Envelope, &subject.CreatedAt, &subject.UpdatedAt, &anonymizedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, subjectDomain.ErrSubjectNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan subject")
	}

	if err := subject.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal subject id")
	}
	subject.CreatedAt = subject.CreatedAt.UTC()
	subject.UpdatedAt = subject.UpdatedAt.UTC()
	if anonymizedAt.Valid {
		t := anonymizedAt.Time.UTC()
		subject.AnonymizedAt = &t
	}
	return &subject, nil
}
