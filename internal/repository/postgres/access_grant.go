package postgres

import (
	"context"
	"database/sql"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"
)

type accessGrantRepository struct {
	db *sql.DB
}

func NewAccessGrantRepository(db *sql.DB) repository.AccessGrantRepository {
	return &accessGrantRepository{db: db}
}

func (r *accessGrantRepository) GetByUser(ctx context.Context, userID int32) (*domain.AccessGrant, error) {
	g := &domain.AccessGrant{}
	query := `SELECT user_id, first_accessed_on, access_count FROM access_grants WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&g.UserID, &g.FirstAccessedOn, &g.AccessCount)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *accessGrantRepository) RecordAccess(ctx context.Context, userID int32) error {
	query := `UPDATE access_grants SET access_count = access_count + 1 WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
