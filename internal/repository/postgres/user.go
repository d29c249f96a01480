package postgres

import (
	"context"
	"database/sql"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"
)

const userColumns = `id, email, name, is_member, membership_stage,
	       initial_application_status, initial_applied_on,
	       full_membership_status, full_membership_ticket,
	       full_membership_applied_on, full_membership_reviewed_on,
	       created_on, updated_on`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	var ticket sql.NullString
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Name, &u.IsMember, &u.MembershipStage,
		&u.InitialApplicationStatus, &u.InitialAppliedOn,
		&u.FullMembershipStatus, &ticket,
		&u.FullMembershipAppliedOn, &u.FullMembershipReviewedOn,
		&u.CreatedOn, &u.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	u.FullMembershipTicket = ticket.String
	return u, nil
}

func (r *userRepository) ListIDs(ctx context.Context) ([]int32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
