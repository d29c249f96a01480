package postgres_test

import (
	"context"
	"testing"
	"time"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"
	"memberhub-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestMembershipTxRepository_SubmitApplication(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewMembershipTxRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("FullSuccess", func(t *testing.T) {
		app := &domain.Application{
			UserID:      3,
			Kind:        domain.ApplicationKindFull,
			Ticket:      "TCK-001",
			Answers:     `{"q1":"a1"}`,
			Status:      domain.ApplicationStatusPending,
			SubmittedOn: now,
		}
		entry := &domain.AuditLogEntry{
			ActorID:     3,
			Action:      domain.AuditActionSubmitApplication,
			SubjectType: "full_membership_application",
			Detail:      `{"ticket":"TCK-001"}`,
		}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO full_membership_applications").
			WithArgs(int32(3), "TCK-001", `{"q1":"a1"}`, domain.ApplicationStatusPending, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectExec("UPDATE users SET full_membership_status").
			WithArgs(domain.FullMembershipPending, "TCK-001", now, int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO audit_log").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := repo.SubmitApplication(ctx, domain.ApplicationKindFull, app, entry)
		assert.NoError(t, err)
		assert.Equal(t, int32(42), app.ID)
		assert.Equal(t, int32(42), entry.SubjectID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicatePendingRollsBack", func(t *testing.T) {
		app := &domain.Application{
			UserID:      3,
			Kind:        domain.ApplicationKindFull,
			Ticket:      "TCK-002",
			Answers:     `{}`,
			Status:      domain.ApplicationStatusPending,
			SubmittedOn: now,
		}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO full_membership_applications").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "one_pending_full_per_user"})
		mock.ExpectRollback()

		err := repo.SubmitApplication(ctx, domain.ApplicationKindFull, app, &domain.AuditLogEntry{})
		assert.Error(t, err)
		assert.True(t, domain.IsType(err, domain.ErrorTypeDuplicatePending))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InitialUpdatesInitialMirror", func(t *testing.T) {
		app := &domain.Application{
			UserID:      5,
			Kind:        domain.ApplicationKindInitial,
			Ticket:      "TCK-9F3A",
			Answers:     `{}`,
			Status:      domain.ApplicationStatusPending,
			SubmittedOn: now,
		}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO initial_applications").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
		mock.ExpectExec("UPDATE users SET initial_application_status").
			WithArgs(domain.ApplicationStatusPending, now, int32(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO audit_log").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectCommit()

		err := repo.SubmitApplication(ctx, domain.ApplicationKindInitial, app, &domain.AuditLogEntry{})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMembershipTxRepository_ApplyReview(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewMembershipTxRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("FullApprovalPromotesAndGrantsAccess", func(t *testing.T) {
		upd := repository.ReviewUpdate{
			ApplicationID: 42,
			UserID:        3,
			ReviewerID:    9,
			Decision:      domain.ApplicationStatusApproved,
			AdminNotes:    "looks good",
			ReviewedOn:    now,
		}

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE full_membership_applications SET status").
			WithArgs(domain.ApplicationStatusApproved, int32(9), now, "looks good", int32(42), domain.ApplicationStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE users SET membership_stage").
			WithArgs(domain.MembershipStageMember, domain.FullMembershipApproved, now, int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO access_grants").
			WithArgs(int32(3), now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO audit_log").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectCommit()

		err := repo.ApplyReview(ctx, domain.ApplicationKindFull, upd, &domain.AuditLogEntry{})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("FullDeclineLeavesStageAlone", func(t *testing.T) {
		upd := repository.ReviewUpdate{
			ApplicationID: 43,
			UserID:        4,
			ReviewerID:    9,
			Decision:      domain.ApplicationStatusDeclined,
			AdminNotes:    "insufficient history",
			ReviewedOn:    now,
		}

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE full_membership_applications SET status").
			WithArgs(domain.ApplicationStatusDeclined, int32(9), now, "insufficient history", int32(43), domain.ApplicationStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE users SET full_membership_status").
			WithArgs(domain.FullMembershipDeclined, now, int32(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO audit_log").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
		mock.ExpectCommit()

		err := repo.ApplyReview(ctx, domain.ApplicationKindFull, upd, &domain.AuditLogEntry{})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SecondReviewerLoses", func(t *testing.T) {
		upd := repository.ReviewUpdate{
			ApplicationID: 42,
			UserID:        3,
			ReviewerID:    10,
			Decision:      domain.ApplicationStatusDeclined,
			ReviewedOn:    now,
		}

		// The row is no longer PENDING so the conditional update touches
		// nothing and the transaction rolls back.
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE full_membership_applications SET status").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.ApplyReview(ctx, domain.ApplicationKindFull, upd, &domain.AuditLogEntry{})
		assert.Error(t, err)
		assert.True(t, domain.IsType(err, domain.ErrorTypeAlreadyReviewed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InitialApprovalPromotesApplicantOnly", func(t *testing.T) {
		upd := repository.ReviewUpdate{
			ApplicationID: 8,
			UserID:        5,
			ReviewerID:    9,
			Decision:      domain.ApplicationStatusApproved,
			ReviewedOn:    now,
		}

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE initial_applications SET status").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE users SET initial_application_status").
			WithArgs(domain.ApplicationStatusApproved, now,
				domain.MembershipStageApplicant, domain.MembershipStagePreMember, int32(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO audit_log").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
		mock.ExpectCommit()

		err := repo.ApplyReview(ctx, domain.ApplicationKindInitial, upd, &domain.AuditLogEntry{})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMembershipTxRepository_AmendAnswers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewMembershipTxRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE initial_applications SET answers").
			WithArgs(`{"q1":"revised"}`, int32(5), domain.ApplicationStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
		mock.ExpectQuery("INSERT INTO audit_log").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))
		mock.ExpectCommit()

		err := repo.AmendAnswers(ctx, domain.ApplicationKindInitial, 5, `{"q1":"revised"}`, &domain.AuditLogEntry{})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoPendingRow", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE initial_applications SET answers").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := repo.AmendAnswers(ctx, domain.ApplicationKindInitial, 5, `{}`, &domain.AuditLogEntry{})
		assert.Error(t, err)
		assert.True(t, domain.IsType(err, domain.ErrorTypeAlreadyReviewed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMembershipTxRepository_WithdrawApplication(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewMembershipTxRepository(db)
	ctx := context.Background()

	t.Run("FullResetsMirror", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE full_membership_applications SET status").
			WithArgs(domain.ApplicationStatusWithdrawn, int32(3), domain.ApplicationStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectExec("UPDATE users SET full_membership_status").
			WithArgs(domain.FullMembershipNotApplied, sqlmock.AnyArg(), int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO audit_log").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectCommit()

		err := repo.WithdrawApplication(ctx, domain.ApplicationKindFull, 3, &domain.AuditLogEntry{})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoPendingRow", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE full_membership_applications SET status").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := repo.WithdrawApplication(ctx, domain.ApplicationKindFull, 3, &domain.AuditLogEntry{})
		assert.Error(t, err)
		assert.True(t, domain.IsType(err, domain.ErrorTypeNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
