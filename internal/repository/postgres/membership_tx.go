package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

type membershipTxRepository struct {
	db *sql.DB
}

// NewMembershipTxRepository wraps the multi-table writes of the application
// lifecycle. Each method is one transaction; the partial unique index on
// (user_id) WHERE status = 'PENDING' backs the at-most-one-pending invariant
// at the storage level.
func NewMembershipTxRepository(db *sql.DB) repository.MembershipTxRepository {
	return &membershipTxRepository{db: db}
}

func (r *membershipTxRepository) SubmitApplication(ctx context.Context, kind domain.ApplicationKind, app *domain.Application, entry *domain.AuditLogEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`INSERT INTO %s (user_id, ticket, answers, status, submitted_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`, tableForKind(kind))
	err = tx.QueryRowContext(ctx, query, app.UserID, app.Ticket, app.Answers, app.Status, app.SubmittedOn).Scan(&app.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewDuplicatePendingError("a pending %s application already exists for user %d", kind, app.UserID)
		}
		return fmt.Errorf("failed to insert application: %w", err)
	}

	var result sql.Result
	if kind == domain.ApplicationKindFull {
		result, err = tx.ExecContext(ctx,
			`UPDATE users SET full_membership_status = $1, full_membership_ticket = $2,
			        full_membership_applied_on = $3, full_membership_reviewed_on = NULL, updated_on = $3
			 WHERE id = $4`,
			domain.FullMembershipPending, app.Ticket, app.SubmittedOn, app.UserID)
	} else {
		result, err = tx.ExecContext(ctx,
			`UPDATE users SET initial_application_status = $1, initial_applied_on = $2, updated_on = $2
			 WHERE id = $3`,
			domain.ApplicationStatusPending, app.SubmittedOn, app.UserID)
	}
	if err != nil {
		return fmt.Errorf("failed to update user status mirror: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d vanished during submit", app.UserID)
	}

	entry.SubjectID = app.ID
	if err := appendAuditTx(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return tx.Commit()
}

func (r *membershipTxRepository) ApplyReview(ctx context.Context, kind domain.ApplicationKind, upd repository.ReviewUpdate, entry *domain.AuditLogEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Conditional update: the PENDING re-check makes the second of two
	// concurrent reviewers fail instead of overwriting the first decision.
	query := fmt.Sprintf(`UPDATE %s SET status = $1, reviewer_id = $2, reviewed_on = $3, admin_notes = $4
	          WHERE id = $5 AND status = $6`, tableForKind(kind))
	result, err := tx.ExecContext(ctx, query,
		upd.Decision, upd.ReviewerID, upd.ReviewedOn, upd.AdminNotes,
		upd.ApplicationID, domain.ApplicationStatusPending)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return domain.NewAlreadyReviewedError("application %d has already been reviewed", upd.ApplicationID)
	}

	if err := r.applyReviewMirror(ctx, tx, kind, upd); err != nil {
		return err
	}

	if kind == domain.ApplicationKindFull && upd.Decision == domain.ApplicationStatusApproved {
		// Idempotent upsert: a re-approval in another lineage must not reset
		// an existing grant's counters.
		_, err = tx.ExecContext(ctx,
			`INSERT INTO access_grants (user_id, first_accessed_on, access_count)
			 VALUES ($1, $2, 0) ON CONFLICT (user_id) DO NOTHING`,
			upd.UserID, upd.ReviewedOn)
		if err != nil {
			return fmt.Errorf("failed to upsert access grant: %w", err)
		}
	}

	entry.SubjectID = upd.ApplicationID
	if err := appendAuditTx(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return tx.Commit()
}

func (r *membershipTxRepository) applyReviewMirror(ctx context.Context, tx *sql.Tx, kind domain.ApplicationKind, upd repository.ReviewUpdate) error {
	var err error
	if kind == domain.ApplicationKindFull {
		if upd.Decision == domain.ApplicationStatusApproved {
			_, err = tx.ExecContext(ctx,
				`UPDATE users SET membership_stage = $1, is_member = TRUE, full_membership_status = $2,
				        full_membership_reviewed_on = $3, updated_on = $3
				 WHERE id = $4`,
				domain.MembershipStageMember, domain.FullMembershipApproved, upd.ReviewedOn, upd.UserID)
		} else {
			// Decline never demotes: the stage stays wherever it was.
			_, err = tx.ExecContext(ctx,
				`UPDATE users SET full_membership_status = $1, full_membership_reviewed_on = $2, updated_on = $2
				 WHERE id = $3`,
				domain.FullMembershipDeclined, upd.ReviewedOn, upd.UserID)
		}
	} else {
		if upd.Decision == domain.ApplicationStatusApproved {
			_, err = tx.ExecContext(ctx,
				`UPDATE users SET initial_application_status = $1, updated_on = $2,
				        membership_stage = CASE WHEN membership_stage = $3 THEN $4 ELSE membership_stage END
				 WHERE id = $5`,
				domain.ApplicationStatusApproved, upd.ReviewedOn,
				domain.MembershipStageApplicant, domain.MembershipStagePreMember, upd.UserID)
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE users SET initial_application_status = $1, updated_on = $2 WHERE id = $3`,
				domain.ApplicationStatusDeclined, upd.ReviewedOn, upd.UserID)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to update user status mirror: %w", err)
	}
	return nil
}

func (r *membershipTxRepository) AmendAnswers(ctx context.Context, kind domain.ApplicationKind, userID int32, answers string, entry *domain.AuditLogEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var appID int32
	query := fmt.Sprintf(`UPDATE %s SET answers = $1 WHERE user_id = $2 AND status = $3 RETURNING id`, tableForKind(kind))
	err = tx.QueryRowContext(ctx, query, answers, userID, domain.ApplicationStatusPending).Scan(&appID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewAlreadyReviewedError("no pending %s application to amend for user %d", kind, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to amend answers: %w", err)
	}

	entry.SubjectID = appID
	if err := appendAuditTx(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return tx.Commit()
}

func (r *membershipTxRepository) WithdrawApplication(ctx context.Context, kind domain.ApplicationKind, userID int32, entry *domain.AuditLogEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var appID int32
	query := fmt.Sprintf(`UPDATE %s SET status = $1 WHERE user_id = $2 AND status = $3 RETURNING id`, tableForKind(kind))
	err = tx.QueryRowContext(ctx, query, domain.ApplicationStatusWithdrawn, userID, domain.ApplicationStatusPending).Scan(&appID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError("no pending %s application for user %d", kind, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to withdraw application: %w", err)
	}

	now := time.Now()
	if kind == domain.ApplicationKindFull {
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET full_membership_status = $1, full_membership_ticket = NULL,
			        full_membership_applied_on = NULL, updated_on = $2
			 WHERE id = $3`,
			domain.FullMembershipNotApplied, now, userID)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET initial_application_status = $1, updated_on = $2 WHERE id = $3`,
			domain.ApplicationStatusWithdrawn, now, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to update user status mirror: %w", err)
	}

	entry.SubjectID = appID
	if err := appendAuditTx(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return tx.Commit()
}
