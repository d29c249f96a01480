package repository

import (
	"context"
	"time"

	"memberhub-backend/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	ListIDs(ctx context.Context) ([]int32, error)
}

// ApplicationRepository is the read side for one application kind. The two
// kinds live in distinct tables with identical shape; implementations are
// bound to a table at construction.
type ApplicationRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Application, error)
	GetLatestByUser(ctx context.Context, userID int32) (*domain.Application, error)
	ListByStatus(ctx context.Context, status domain.ApplicationStatus, limit, offset int32) ([]domain.Application, int32, error)
}

type AccessGrantRepository interface {
	GetByUser(ctx context.Context, userID int32) (*domain.AccessGrant, error)
	RecordAccess(ctx context.Context, userID int32) error
}

type AuditLogRepository interface {
	ListRecent(ctx context.Context, limit, offset int32) ([]domain.AuditLogEntry, int32, error)
}

// ReviewUpdate is the write set the review engine applies to one pending
// application.
type ReviewUpdate struct {
	ApplicationID int32
	UserID        int32
	ReviewerID    int32
	Decision      domain.ApplicationStatus // APPROVED or DECLINED
	AdminNotes    string
	ReviewedOn    time.Time
}

// MembershipTxRepository holds the multi-table atomic units of the
// application lifecycle. Every method commits all of its writes or none,
// and re-checks the PENDING precondition inside the transaction so that
// concurrent writers lose cleanly.
type MembershipTxRepository interface {
	// SubmitApplication inserts the application row, refreshes the user's
	// mirror fields and appends the audit entry in one transaction. A
	// conflicting pending row surfaces as DUPLICATE_PENDING.
	SubmitApplication(ctx context.Context, kind domain.ApplicationKind, app *domain.Application, entry *domain.AuditLogEntry) error

	// ApplyReview transitions one PENDING application to the decision,
	// updates the user mirrors (and promotes the membership stage on
	// approval), upserts the access grant for full-membership approvals and
	// appends the audit entry. Returns ALREADY_REVIEWED when the row is no
	// longer pending.
	ApplyReview(ctx context.Context, kind domain.ApplicationKind, upd ReviewUpdate, entry *domain.AuditLogEntry) error

	// AmendAnswers replaces the answers payload of the user's pending
	// application. Returns ALREADY_REVIEWED when no pending row exists.
	AmendAnswers(ctx context.Context, kind domain.ApplicationKind, userID int32, answers string, entry *domain.AuditLogEntry) error

	// WithdrawApplication moves the user's pending application to WITHDRAWN
	// and resets the mirror fields. Returns NOT_FOUND when no pending row
	// exists.
	WithdrawApplication(ctx context.Context, kind domain.ApplicationKind, userID int32, entry *domain.AuditLogEntry) error
}
