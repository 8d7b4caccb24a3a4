package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	consentDomain "github.com/allisson/piivault/internal/consent/domain"
)

func TestMySQLConsentRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewMySQLConsentRepository(db)
	consent := newConsent("marketing", true)
	id, _ := consent.ID.MarshalBinary()
	subjectID, _ := consent.SubjectID.MarshalBinary()

	mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE")).
		WithArgs(id, subjectID, consent.Purpose, consent.Granted, consent.Timestamp).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), consent))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLConsentRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewMySQLConsentRepository(db)
	consent := newConsent("analytics", true)
	id, _ := consent.ID.MarshalBinary()
	subjectID, _ := consent.SubjectID.MarshalBinary()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE subject_id = ? AND purpose = ?")).
			WithArgs(subjectID, consent.Purpose).
			WillReturnRows(sqlmock.NewRows(consentColumns).
				AddRow(id, subjectID, consent.Purpose, consent.Granted, consent.Timestamp))

		got, err := repo.Get(context.Background(), consent.SubjectID, consent.Purpose)
		require.NoError(t, err)
		assert.Equal(t, consent, got)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM consents")).
			WillReturnRows(sqlmock.NewRows(consentColumns))

		_, err := repo.Get(context.Background(), consent.SubjectID, "unknown")
		assert.ErrorIs(t, err, consentDomain.ErrConsentNotFound)
	})

	t.Run("corrupt id", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM consents")).
			WillReturnRows(sqlmock.NewRows(consentColumns).
				AddRow([]byte{1, 2}, subjectID, consent.Purpose, consent.Granted, consent.Timestamp))

		_, err := repo.Get(context.Background(), consent.SubjectID, consent.Purpose)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal consent id")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLConsentRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewMySQLConsentRepository(db)
	consent := newConsent("analytics", false)
	id, _ := consent.ID.MarshalBinary()
	subjectID, _ := consent.SubjectID.MarshalBinary()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ?")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(consentColumns).
			AddRow(id, subjectID, consent.Purpose, consent.Granted, consent.Timestamp))

	got, err := repo.GetByID(context.Background(), consent.ID)
	require.NoError(t, err)
	assert.Equal(t, consent, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLConsentRepository_ListBySubject(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewMySQLConsentRepository(db)
	consent := newConsent("analytics", true)
	id, _ := consent.ID.MarshalBinary()
	subjectID, _ := consent.SubjectID.MarshalBinary()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY purpose ASC")).
		WithArgs(subjectID).
		WillReturnRows(sqlmock.NewRows(consentColumns).
			AddRow(id, subjectID, consent.Purpose, consent.Granted, consent.Timestamp))

	consents, err := repo.ListBySubject(context.Background(), consent.SubjectID)
	require.NoError(t, err)
	assert.Equal(t, []*consentDomain.Consent{consent}, consents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLConsentRepository_RevokeAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewMySQLConsentRepository(db)
	subject := uuid.Must(uuid.NewV7())
	subjectID, _ := subject.MarshalBinary()
	at := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("WHERE subject_id = ? AND granted = true")).
		WithArgs(at, subjectID).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.RevokeAll(context.Background(), subject, at)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE consents")).WillReturnError(assert.AnError)
	_, err = repo.RevokeAll(context.Background(), subject, at)
	assert.ErrorIs(t, err, assert.AnError)

	assert.NoError(t, mock.ExpectationsWereMet())
}
