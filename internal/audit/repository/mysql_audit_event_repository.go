package repository

import (
	"context"
	"database/sql"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
)

// MySQLAuditEventRepository implements audit event persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLAuditEventRepository struct {
	db *sql.DB
}

// NewMySQLAuditEventRepository creates a new MySQL audit event repository.
func NewMySQLAuditEventRepository(db *sql.DB) *MySQLAuditEventRepository {
	return &MySQLAuditEventRepository{db: db}
}

// Create inserts an audit event. A nil detail is stored as NULL.
func (m *MySQLAuditEventRepository) Create(ctx context.Context, event *auditDomain.AuditEvent) error {
	querier := database.GetTx(ctx, m.db)

	detail, err := encodeDetail(event.Detail)
	if err != nil {
		return err
	}

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit event id")
	}
	subjectID, err := event.SubjectID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit event subject_id")
	}

	query := `INSERT INTO audit_events (id, actor, action, subject_type, subject_id, detail, signature, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		event.Actor,
		event.Action,
		event.SubjectType,
		subjectID,
		detail,
		event.Signature,
		event.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit event")
	}
	return nil
}

// List returns events matching filter ordered by created_at descending.
func (m *MySQLAuditEventRepository) List(
	ctx context.Context,
	filter auditDomain.ListFilter,
) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, m.db)

	where, args, err := whereClause(
		filter,
		func(int) string { return "?" },
		func() (any, error) {
			b, err := filter.SubjectID.MarshalBinary()
			if err != nil {
				return nil, apperrors.Wrap(err, "failed to marshal subject_id filter")
			}
			return b, nil
		},
	)
	if err != nil {
		return nil, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT id, actor, action, subject_type, subject_id, detail, signature, created_at
			  FROM audit_events` + where + `
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	defer func() {
		_ = rows.Close()
	}()

	events := make([]*auditDomain.AuditEvent, 0)
	for rows.Next() {
		var event auditDomain.AuditEvent
		var idBinary, subjectIDBinary []byte
		var detail sql.NullString

		if err := rows.Scan(
			&idBinary,
			&event.Actor,
			&event.Action,
			&event.SubjectType,
			&subjectIDBinary,
			&detail,
			&event.Signature,
			&event.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit event")
		}

		if err := event.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit event id")
		}
		if err := event.SubjectID.UnmarshalBinary(subjectIDBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit event subject_id")
		}
		if event.Detail, err = decodeDetail(detail); err != nil {
			return nil, err
		}
		event.CreatedAt = event.CreatedAt.UTC()
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit events")
	}
	return events, nil
}
