package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"
)

const applicationColumns = `id, user_id, ticket, answers, status, submitted_on, reviewed_on, reviewer_id, admin_notes`

func tableForKind(kind domain.ApplicationKind) string {
	if kind == domain.ApplicationKindInitial {
		return "initial_applications"
	}
	return "full_membership_applications"
}

type applicationRepository struct {
	db    *sql.DB
	kind  domain.ApplicationKind
	table string
}

// NewApplicationRepository binds a read repository to the table of one
// application kind.
func NewApplicationRepository(db *sql.DB, kind domain.ApplicationKind) repository.ApplicationRepository {
	return &applicationRepository{db: db, kind: kind, table: tableForKind(kind)}
}

func (r *applicationRepository) scan(row interface{ Scan(...any) error }) (*domain.Application, error) {
	app := &domain.Application{Kind: r.kind}
	var notes sql.NullString
	err := row.Scan(
		&app.ID, &app.UserID, &app.Ticket, &app.Answers, &app.Status,
		&app.SubmittedOn, &app.ReviewedOn, &app.ReviewerID, &notes,
	)
	if err != nil {
		return nil, err
	}
	app.AdminNotes = notes.String
	return app, nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id int32) (*domain.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, applicationColumns, r.table)
	return r.scan(r.db.QueryRowContext(ctx, query, id))
}

func (r *applicationRepository) GetLatestByUser(ctx context.Context, userID int32) (*domain.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 ORDER BY submitted_on DESC, id DESC LIMIT 1`,
		applicationColumns, r.table)
	return r.scan(r.db.QueryRowContext(ctx, query, userID))
}

func (r *applicationRepository) ListByStatus(ctx context.Context, status domain.ApplicationStatus, limit, offset int32) ([]domain.Application, int32, error) {
	where := ""
	args := []any{}
	if status != "" {
		where = " WHERE status = $1"
		args = append(args, status)
	}

	var total int32
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, r.table, where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY submitted_on DESC, id DESC LIMIT $%d OFFSET $%d`,
		applicationColumns, r.table, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		app, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, *app)
	}
	return apps, total, rows.Err()
}
