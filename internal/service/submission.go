package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"

	"github.com/google/uuid"
)

type submissionService struct {
	userRepo    repository.UserRepository
	initialApps repository.ApplicationRepository
	fullApps    repository.ApplicationRepository
	txRepo      repository.MembershipTxRepository
	emailSvc    EmailService
}

func NewSubmissionService(
	userRepo repository.UserRepository,
	initialApps repository.ApplicationRepository,
	fullApps repository.ApplicationRepository,
	txRepo repository.MembershipTxRepository,
	emailSvc EmailService,
) SubmissionService {
	return &submissionService{
		userRepo:    userRepo,
		initialApps: initialApps,
		fullApps:    fullApps,
		txRepo:      txRepo,
		emailSvc:    emailSvc,
	}
}

// generateTicket builds the human-readable identifier attached to an
// application when the caller does not supply one.
func generateTicket() string {
	return "TCK-" + strings.ToUpper(uuid.New().String()[:8])
}

func (s *submissionService) latest(ctx context.Context, repo repository.ApplicationRepository, userID int32) (*domain.Application, error) {
	app, err := repo.GetLatestByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapStoreError(err)
	}
	return app, nil
}

func (s *submissionService) SubmitInitial(ctx context.Context, userID int32, answers string) (*domain.Application, error) {
	if strings.TrimSpace(answers) == "" {
		return nil, domain.NewValidationError("answers payload is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapReadError(err, "user %d not found", userID)
	}

	prev, err := s.latest(ctx, s.initialApps, userID)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		switch prev.Status {
		case domain.ApplicationStatusPending:
			return nil, domain.NewDuplicatePendingError("an initial application is already pending")
		case domain.ApplicationStatusApproved:
			return nil, domain.NewIneligibleStateError("initial application has already been approved")
		}
	}

	app := &domain.Application{
		UserID:      userID,
		Kind:        domain.ApplicationKindInitial,
		Ticket:      generateTicket(),
		Answers:     answers,
		Status:      domain.ApplicationStatusPending,
		SubmittedOn: time.Now(),
	}
	entry := submitAuditEntry(userID, app)
	if err := s.txRepo.SubmitApplication(ctx, domain.ApplicationKindInitial, app, entry); err != nil {
		return nil, mapStoreError(err)
	}

	// Delivery failures must never surface: the submission is committed.
	_ = s.emailSvc.SendSubmissionReceipt(ctx, user.Email, user.Name, domain.ApplicationKindInitial, app.Ticket)

	return app, nil
}

func (s *submissionService) SubmitFullMembership(ctx context.Context, userID int32, answers, ticket string) (*domain.Application, error) {
	return s.submitFull(ctx, userID, answers, ticket, false)
}

func (s *submissionService) ReapplyFullMembership(ctx context.Context, userID int32, answers, ticket string) (*domain.Application, error) {
	return s.submitFull(ctx, userID, answers, ticket, true)
}

func (s *submissionService) submitFull(ctx context.Context, userID int32, answers, ticket string, reapply bool) (*domain.Application, error) {
	if strings.TrimSpace(answers) == "" {
		return nil, domain.NewValidationError("answers payload is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapReadError(err, "user %d not found", userID)
	}
	switch user.MembershipStage {
	case domain.MembershipStageMember:
		return nil, domain.NewIneligibleStateError("user is already a full member")
	case domain.MembershipStagePreMember:
		// eligible
	default:
		return nil, domain.NewIneligibleStateError("full membership requires pre-member standing")
	}

	prev, err := s.latest(ctx, s.fullApps, userID)
	if err != nil {
		return nil, err
	}
	if prev != nil && prev.Status == domain.ApplicationStatusPending {
		return nil, domain.NewDuplicatePendingError("a full-membership application is already pending")
	}
	if reapply && (prev == nil || prev.Status != domain.ApplicationStatusDeclined) {
		return nil, domain.NewIneligibleStateError("re-application requires a declined prior application")
	}

	if strings.TrimSpace(ticket) == "" {
		ticket = generateTicket()
	}

	app := &domain.Application{
		UserID:      userID,
		Kind:        domain.ApplicationKindFull,
		Ticket:      ticket,
		Answers:     answers,
		Status:      domain.ApplicationStatusPending,
		SubmittedOn: time.Now(),
	}
	entry := submitAuditEntry(userID, app)
	if err := s.txRepo.SubmitApplication(ctx, domain.ApplicationKindFull, app, entry); err != nil {
		return nil, mapStoreError(err)
	}

	_ = s.emailSvc.SendSubmissionReceipt(ctx, user.Email, user.Name, domain.ApplicationKindFull, app.Ticket)

	return app, nil
}

func (s *submissionService) AmendInitialAnswers(ctx context.Context, userID int32, answers string) error {
	if strings.TrimSpace(answers) == "" {
		return domain.NewValidationError("answers payload is required")
	}

	prev, err := s.latest(ctx, s.initialApps, userID)
	if err != nil {
		return err
	}
	if prev == nil {
		return domain.NewNotFoundError("no initial application found for user %d", userID)
	}
	if prev.IsDecided() {
		return domain.NewAlreadyReviewedError("initial application %d has already been reviewed", prev.ID)
	}

	entry := &domain.AuditLogEntry{
		ActorID:     userID,
		Action:      domain.AuditActionAmendApplication,
		SubjectType: subjectType(domain.ApplicationKindInitial),
	}
	if err := s.txRepo.AmendAnswers(ctx, domain.ApplicationKindInitial, userID, answers, entry); err != nil {
		return mapStoreError(err)
	}
	return nil
}

func (s *submissionService) WithdrawInitial(ctx context.Context, userID int32) error {
	entry := &domain.AuditLogEntry{
		ActorID:     userID,
		Action:      domain.AuditActionWithdrawApplication,
		SubjectType: subjectType(domain.ApplicationKindInitial),
	}
	if err := s.txRepo.WithdrawApplication(ctx, domain.ApplicationKindInitial, userID, entry); err != nil {
		return mapStoreError(err)
	}
	return nil
}

func subjectType(kind domain.ApplicationKind) string {
	if kind == domain.ApplicationKindInitial {
		return "initial_application"
	}
	return "full_membership_application"
}

func submitAuditEntry(userID int32, app *domain.Application) *domain.AuditLogEntry {
	detail, _ := json.Marshal(map[string]string{
		"kind":   string(app.Kind),
		"ticket": app.Ticket,
	})
	return &domain.AuditLogEntry{
		ActorID:     userID,
		Action:      domain.AuditActionSubmitApplication,
		SubjectType: subjectType(app.Kind),
		Detail:      string(detail),
	}
}
