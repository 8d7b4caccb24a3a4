package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	subjectDomain "github.com/allisson/piivault/internal/subject/domain"
)

var subjectColumns = []string{"id", "envelope", "created_at", "updated_at", "anonymized_at"}

func newSubject() *subjectDomain.Subject {
	now := time.Now().UTC()
	return &subjectDomain.Subject{
		ID:        uuid.Must(uuid.NewV7()),
		Envelope:  []byte("envelope-bytes"),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPostgreSQLSubjectRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLSubjectRepository(db)
	subject := newSubject()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subjects")).
			WithArgs(subject.ID, subject.Envelope, subject.CreatedAt, subject.UpdatedAt, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), subject))
	})

	t.Run("duplicate id", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subjects")).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(context.Background(), subject)
		assert.ErrorIs(t, err, subjectDomain.ErrSubjectAlreadyExists)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subjects")).WillReturnError(assert.AnError)

		err := repo.Create(context.Background(), subject)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to create subject")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLSubjectRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLSubjectRepository(db)
	subject := newSubject()
	anonymizedAt := subject.UpdatedAt

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
			WithArgs(subject.ID).
			WillReturnRows(sqlmock.NewRows(subjectColumns).
				AddRow(subject.ID.String(), subject.Envelope, subject.CreatedAt, subject.UpdatedAt, nil))

		got, err := repo.Get(context.Background(), subject.ID)
		require.NoError(t, err)
		assert.Equal(t, subject, got)
		assert.False(t, got.IsAnonymized())
	})

	t.Run("anonymized for update", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs(subject.ID).
			WillReturnRows(sqlmock.NewRows(subjectColumns).
				AddRow(subject.ID.String(), subject.Envelope, subject.CreatedAt, subject.UpdatedAt, anonymizedAt))

		got, err := repo.GetForUpdate(context.Background(), subject.ID)
		require.NoError(t, err)
		require.NotNil(t, got.AnonymizedAt)
		assert.Equal(t, anonymizedAt, *got.AnonymizedAt)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM subjects")).
			WillReturnRows(sqlmock.NewRows(subjectColumns))

		_, err := repo.Get(context.Background(), subject.ID)
		assert.ErrorIs(t, err, subjectDomain.ErrSubjectNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLSubjectRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLSubjectRepository(db)
	subject := newSubject()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE subjects SET envelope = $1")).
			WithArgs(subject.Envelope, subject.UpdatedAt, nil, subject.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(context.Background(), subject))
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE subjects")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), subject)
		assert.ErrorIs(t, err, subjectDomain.ErrSubjectNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLSubjectRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLSubjectRepository(db)
	subject := newSubject()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id DESC")).
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows(subjectColumns).
			AddRow(subject.ID.String(), subject.Envelope, subject.CreatedAt, subject.UpdatedAt, nil))

	subjects, err := repo.List(context.Background(), 20, 10)
	require.NoError(t, err)
	assert.Equal(t, []*subjectDomain.Subject{subject}, subjects)

	mock.ExpectQuery(regexp.QuoteMeta("FROM subjects")).WillReturnError(assert.AnError)
	_, err = repo.List(context.Background(), 0, 10)
	assert.ErrorIs(t, err, assert.AnError)

	assert.NoError(t, mock.ExpectationsWereMet())
}
