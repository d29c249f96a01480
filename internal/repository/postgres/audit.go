package postgres

import (
	"context"
	"database/sql"
	"time"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"
)

type auditLogRepository struct {
	db *sql.DB
}

func NewAuditLogRepository(db *sql.DB) repository.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) ListRecent(ctx context.Context, limit, offset int32) ([]domain.AuditLogEntry, int32, error) {
	var total int32
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, actor_id, action, subject_type, subject_id, detail, created_on
	          FROM audit_log ORDER BY created_on DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.AuditLogEntry
	for rows.Next() {
		var e domain.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.SubjectType, &e.SubjectID, &e.Detail, &e.CreatedOn); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// appendAuditTx writes an audit entry inside the caller's transaction so the
// entry commits or rolls back with the state change it records.
func appendAuditTx(ctx context.Context, tx *sql.Tx, entry *domain.AuditLogEntry) error {
	if entry.CreatedOn.IsZero() {
		entry.CreatedOn = time.Now()
	}
	query := `INSERT INTO audit_log (actor_id, action, subject_type, subject_id, detail, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return tx.QueryRowContext(ctx, query,
		entry.ActorID, entry.Action, entry.SubjectType, entry.SubjectID, entry.Detail, entry.CreatedOn,
	).Scan(&entry.ID)
}
