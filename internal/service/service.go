package service

import (
	"context"
	"time"

	"memberhub-backend/internal/domain"
)

type SubmissionService interface {
	SubmitInitial(ctx context.Context, userID int32, answers string) (*domain.Application, error)
	SubmitFullMembership(ctx context.Context, userID int32, answers, ticket string) (*domain.Application, error)
	ReapplyFullMembership(ctx context.Context, userID int32, answers, ticket string) (*domain.Application, error)
	AmendInitialAnswers(ctx context.Context, userID int32, answers string) error
	WithdrawInitial(ctx context.Context, userID int32) error
}

// ReviewResult reports one successful decision.
type ReviewResult struct {
	ApplicationID int32                    `json:"application_id"`
	UserID        int32                    `json:"user_id"`
	Decision      domain.ApplicationStatus `json:"decision"`
}

// BulkReviewFailure captures one item that could not be decided, with the
// taxonomy tag so callers can retry only the retryable subset.
type BulkReviewFailure struct {
	ApplicationID int32            `json:"application_id"`
	Reason        domain.ErrorType `json:"reason"`
	Message       string           `json:"message"`
}

type BulkReviewResult struct {
	Succeeded []int32             `json:"succeeded"`
	Failed    []BulkReviewFailure `json:"failed"`
}

type ReviewService interface {
	Review(ctx context.Context, kind domain.ApplicationKind, applicationID, reviewerID int32, decision, adminNotes string) (*ReviewResult, error)
	BulkReview(ctx context.Context, kind domain.ApplicationKind, applicationIDs []int32, reviewerID int32, decision, adminNotes string) (*BulkReviewResult, error)
	ListApplications(ctx context.Context, kind domain.ApplicationKind, status string, limit, offset int32) ([]domain.Application, int32, error)
}

// MembershipStatusView merges the latest full-membership application with the
// user's membership stage. Status is NOT_APPLIED when no application exists.
type MembershipStatusView struct {
	Status          string                 `json:"status"`
	Ticket          string                 `json:"ticket,omitempty"`
	AppliedOn       *time.Time             `json:"applied_on,omitempty"`
	ReviewedOn      *time.Time             `json:"reviewed_on,omitempty"`
	AdminNotes      string                 `json:"admin_notes,omitempty"`
	Answers         string                 `json:"answers,omitempty"`
	MembershipStage domain.MembershipStage `json:"membership_stage"`
}

// SurveyStatusView merges the initial-application questionnaire state with
// the user's membership standing.
type SurveyStatusView struct {
	SurveyCompleted      bool                        `json:"survey_completed"`
	SurveyStatus         string                      `json:"survey_status"`
	SubmittedOn          *time.Time                  `json:"submitted_on,omitempty"`
	MembershipStage      domain.MembershipStage      `json:"membership_stage"`
	FullMembershipStatus domain.FullMembershipStatus `json:"full_membership_status"`
}

type StatusService interface {
	// GetFullMembershipStatus returns the merged status view. recordAccess
	// bumps the engagement counter and is set only for self-reads.
	GetFullMembershipStatus(ctx context.Context, userID int32, recordAccess bool) (*MembershipStatusView, error)
	CheckSurveyStatus(ctx context.Context, userID int32) (*SurveyStatusView, error)
}

type ConsistencyService interface {
	CheckUser(ctx context.Context, userID int32) (*domain.ConsistencyReport, error)
	CheckAll(ctx context.Context) ([]domain.ConsistencyReport, error)
}

type AuditService interface {
	ListRecent(ctx context.Context, limit, offset int32) ([]domain.AuditLogEntry, int32, error)
}

type EmailService interface {
	SendSubmissionReceipt(ctx context.Context, email, name string, kind domain.ApplicationKind, ticket string) error
	SendDecisionNotification(ctx context.Context, email, name string, kind domain.ApplicationKind, decision domain.ApplicationStatus, adminNotes string) error
	SendAdminAlert(ctx context.Context, email, subject, message string) error
}
