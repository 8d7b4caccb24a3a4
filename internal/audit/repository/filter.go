// Package repository implements audit event persistence for PostgreSQL, MySQL
// and process memory.
package repository

import (
	"database/sql"
	"strings"

	auditDomain "github.com/allisson/piivault/internal/audit/domain"
	"github.com/allisson/piivault/internal/canonical"
	apperrors "github.com/allisson/piivault/internal/errors"
)

// whereClause builds the WHERE clause for a ListFilter. placeholder returns the
// driver-specific bind marker for the n-th argument and subjectID converts the
// subject id into the driver's column representation.
func whereClause(
	filter auditDomain.ListFilter,
	placeholder func(n int) string,
	subjectID func() (any, error),
) (string, []any, error) {
	conditions := make([]string, 0, 5)
	args := make([]any, 0, 7)

	add := func(condition string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, condition+placeholder(len(args)))
	}

	if filter.SubjectID != nil {
		id, err := subjectID()
		if err != nil {
			return "", nil, err
		}
		add("subject_id = ", id)
	}
	if filter.Action != "" {
		add("action = ", filter.Action)
	}
	if filter.SubjectType != "" {
		add("subject_type = ", filter.SubjectType)
	}
	if filter.CreatedAtFrom != nil {
		add("created_at >= ", *filter.CreatedAtFrom)
	}
	if filter.CreatedAtTo != nil {
		add("created_at <= ", *filter.CreatedAtTo)
	}

	if len(conditions) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

func encodeDetail(detail canonical.Document) (sql.NullString, error) {
	if detail == nil {
		return sql.NullString{}, nil
	}
	s, err := canonical.EncodeString(detail)
	if err != nil {
		return sql.NullString{}, apperrors.Wrap(err, "failed to encode audit event detail")
	}
	return sql.NullString{String: s, Valid: true}, nil
}

func decodeDetail(detail sql.NullString) (canonical.Document, error) {
	if !detail.Valid {
		return nil, nil
	}
	doc, err := canonical.Decode([]byte(detail.String))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode audit event detail")
	}
	return doc, nil
}
