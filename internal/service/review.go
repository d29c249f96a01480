package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type reviewService struct {
	userRepo    repository.UserRepository
	initialApps repository.ApplicationRepository
	fullApps    repository.ApplicationRepository
	txRepo      repository.MembershipTxRepository
	emailSvc    EmailService
}

func NewReviewService(
	userRepo repository.UserRepository,
	initialApps repository.ApplicationRepository,
	fullApps repository.ApplicationRepository,
	txRepo repository.MembershipTxRepository,
	emailSvc EmailService,
) ReviewService {
	return &reviewService{
		userRepo:    userRepo,
		initialApps: initialApps,
		fullApps:    fullApps,
		txRepo:      txRepo,
		emailSvc:    emailSvc,
	}
}

func (s *reviewService) apps(kind domain.ApplicationKind) repository.ApplicationRepository {
	if kind == domain.ApplicationKindInitial {
		return s.initialApps
	}
	return s.fullApps
}

func parseDecision(decision string) (domain.ApplicationStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(decision)) {
	case "APPROVED", "APPROVE":
		return domain.ApplicationStatusApproved, nil
	case "DECLINED", "DECLINE":
		return domain.ApplicationStatusDeclined, nil
	default:
		return "", domain.NewValidationError("invalid decision %q: must be APPROVED or DECLINED", decision)
	}
}

func (s *reviewService) Review(ctx context.Context, kind domain.ApplicationKind, applicationID, reviewerID int32, decision, adminNotes string) (*ReviewResult, error) {
	parsed, err := parseDecision(decision)
	if err != nil {
		return nil, err
	}

	// All preconditions are checked before the transaction opens; the
	// conditional update inside ApplyReview re-checks PENDING against races.
	app, err := s.apps(kind).GetByID(ctx, applicationID)
	if err != nil {
		return nil, mapReadError(err, "%s %d not found", subjectType(kind), applicationID)
	}
	if app.IsDecided() {
		return nil, domain.NewAlreadyReviewedError("application %d has already been reviewed", applicationID)
	}

	upd := repository.ReviewUpdate{
		ApplicationID: applicationID,
		UserID:        app.UserID,
		ReviewerID:    reviewerID,
		Decision:      parsed,
		AdminNotes:    adminNotes,
		ReviewedOn:    time.Now(),
	}
	detail, _ := json.Marshal(map[string]any{
		"decision":     parsed,
		"applicant_id": app.UserID,
		"admin_notes":  adminNotes,
	})
	entry := &domain.AuditLogEntry{
		ActorID:     reviewerID,
		Action:      domain.AuditActionReviewApplication,
		SubjectType: subjectType(kind),
		Detail:      string(detail),
	}

	if err := s.txRepo.ApplyReview(ctx, kind, upd, entry); err != nil {
		return nil, mapStoreError(err)
	}

	// Notification is outside the atomic unit: a delivery failure must not
	// roll back the decision.
	if applicant, err := s.userRepo.GetByID(ctx, app.UserID); err == nil {
		_ = s.emailSvc.SendDecisionNotification(ctx, applicant.Email, applicant.Name, kind, parsed, adminNotes)
	}

	return &ReviewResult{
		ApplicationID: applicationID,
		UserID:        app.UserID,
		Decision:      parsed,
	}, nil
}

func (s *reviewService) BulkReview(ctx context.Context, kind domain.ApplicationKind, applicationIDs []int32, reviewerID int32, decision, adminNotes string) (*BulkReviewResult, error) {
	if len(applicationIDs) == 0 {
		return nil, domain.NewValidationError("application id list must not be empty")
	}
	if _, err := parseDecision(decision); err != nil {
		return nil, err
	}

	result := &BulkReviewResult{
		Succeeded: []int32{},
		Failed:    []BulkReviewFailure{},
	}
	for _, id := range applicationIDs {
		if _, err := s.Review(ctx, kind, id, reviewerID, decision, adminNotes); err != nil {
			reason, ok := domain.TypeOf(err)
			if !ok {
				reason = domain.ErrorTypeTransactionFailed
			}
			result.Failed = append(result.Failed, BulkReviewFailure{
				ApplicationID: id,
				Reason:        reason,
				Message:       err.Error(),
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result, nil
}

func (s *reviewService) ListApplications(ctx context.Context, kind domain.ApplicationKind, status string, limit, offset int32) ([]domain.Application, int32, error) {
	var filter domain.ApplicationStatus
	if status != "" {
		filter = domain.ApplicationStatus(strings.ToUpper(status))
		switch filter {
		case domain.ApplicationStatusPending, domain.ApplicationStatusApproved,
			domain.ApplicationStatusDeclined, domain.ApplicationStatusWithdrawn:
		default:
			return nil, 0, domain.NewValidationError("invalid status filter %q", status)
		}
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	apps, total, err := s.apps(kind).ListByStatus(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	return apps, total, nil
}
