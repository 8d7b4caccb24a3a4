package repository

import (
	"context"
	"database/sql"
	"fmt"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
	"github.com/allisson/piivault/internal/database"
	apperrors "github.com/allisson/piivault/internal/errors"
)

// PostgreSQLAuditEventRepository implements audit event persistence for PostgreSQL.
type PostgreSQLAuditEventRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditEventRepository creates a new PostgreSQL audit event repository.
func NewPostgreSQLAuditEventRepository(db *sql.DB) *PostgreSQLAuditEventRepository {
	return &PostgreSQLAuditEventRepository{db: db}
}

// Create inserts an audit event. A nil detail is stored as NULL.
func (p *PostgreSQLAuditEventRepository) Create(ctx context.Context, event *auditDomain.AuditEvent) error {
	querier := database.GetTx(ctx, p.db)

	detail, err := encodeDetail(event.Detail)
	if err != nil {
		return err
	}

	query := `INSERT INTO audit_events (id, actor, action, subject_type, subject_id, detail, signature, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(
		ctx,
		query,
		event.ID,
		event.Actor,
		event.Action,
		event.SubjectType,
		event.SubjectID,
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
func (p *PostgreSQLAuditEventRepository) List(
	ctx context.Context,
	filter auditDomain.ListFilter,
) ([]*auditDomain.AuditEvent, error) {
	querier := database.GetTx(ctx, p.db)

	where, args, err := whereClause(
		filter,
		func(n int) string { return fmt.Sprintf("$%d", n) },
		func() (any, error) { return *filter.SubjectID, nil },
	)
	if err != nil {
		return nil, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT id, actor, action, subject_type, subject_id, detail, signature, created_at
			  FROM audit_events` + where + fmt.Sprintf(`
			  ORDER BY created_at DESC, id DESC
			  LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

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
		var detail sql.NullString

		if err := rows.Scan(
			&event.ID,
			&event.Actor,
			&event.Action,
			&event.SubjectType,
			&event.SubjectID,
			&detail,
			&event.Signature,
			&event.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit event")
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
