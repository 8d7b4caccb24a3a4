// Package repository implements subject persistence for PostgreSQL, MySQL and
// process memory.
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

// PostgreSQLSubjectRepository implements subject persistence for PostgreSQL.
type PostgreSQLSubjectRepository struct {
	db *sql.DB
}

// NewPostgreSQLSubjectRepository creates a new PostgreSQL subject repository.
func NewPostgreSQLSubjectRepository(db *sql.DB) *PostgreSQLSubjectRepository {
	return &PostgreSQLSubjectRepository{db: db}
}

func (p *PostgreSQLSubjectRepository) Create(ctx context.Context, subject *subjectDomain.Subject) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO subjects (id, envelope, created_at, updated_at, anonymized_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		subject.ID,
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

func (p *PostgreSQLSubjectRepository) Get(ctx context.Context, id uuid.UUID) (*subjectDomain.Subject, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, envelope, created_at, updated_at, anonymized_at
			  FROM subjects
			  WHERE id = $1`

	return scanSubject(querier.QueryRowContext(ctx, query, id))
}

func (p *PostgreSQLSubjectRepository) GetForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*subjectDomain.Subject, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, envelope, created_at, updated_at, anonymized_at
			  FROM subjects
			  WHERE id = $1
			  FOR UPDATE`

	return scanSubject(querier.QueryRowContext(ctx, query, id))
}

func (p *PostgreSQLSubjectRepository) Update(ctx context.Context, subject *subjectDomain.Subject) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE subjects SET envelope = $1, updated_at = $2, anonymized_at = $3
			  WHERE id = $4`

	result, err := querier.ExecContext(
		ctx,
		query,
		subject.Envelope,
		subject.UpdatedAt,
		subject.AnonymizedAt,
		subject.ID,
	)
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

func (p *PostgreSQLSubjectRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*subjectDomain.Subject, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, envelope, created_at, updated_at, anonymized_at
			  FROM subjects
			  ORDER BY id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list subjects")
	}
	defer func() {
		_ = rows.Close()
	}()

	subjects := make([]*subjectDomain.Subject, 0)
	for rows.Next() {
		subject, err := scanSubject(rows)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubject(row rowScanner) (*subjectDomain.Subject, error) {
	var subject subjectDomain.Subject
	var anonymizedAt sql.NullTime

	err := row.Scan(&subject.ID, &subject.Envelope, &subject.CreatedAt, &subject.UpdatedAt, &anonymizedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, subjectDomain.ErrSubjectNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan subject")
	}

	subject.CreatedAt = subject.CreatedAt.UTC()
	subject.UpdatedAt = subject.UpdatedAt.UTC()
	if anonymizedAt.Valid {
		t := anonymizedAt.Time.UTC()
		subject.AnonymizedAt = &t
	}
	return &subject, nil
}
