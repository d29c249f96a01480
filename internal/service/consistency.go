package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"
)

type consistencyService struct {
	userRepo  repository.UserRepository
	fullApps  repository.ApplicationRepository
	grantRepo repository.AccessGrantRepository
}

// NewConsistencyService builds the read-only auditor of the denormalized
// status mirrors. It reports drift and never repairs it.
func NewConsistencyService(
	userRepo repository.UserRepository,
	fullApps repository.ApplicationRepository,
	grantRepo repository.AccessGrantRepository,
) ConsistencyService {
	return &consistencyService{
		userRepo:  userRepo,
		fullApps:  fullApps,
		grantRepo: grantRepo,
	}
}

// mirroredStatus maps the latest application row to the value the user's
// full_membership_status mirror should hold. Withdrawn rows reset the mirror
// to NOT_APPLIED.
func mirroredStatus(app *domain.Application) domain.FullMembershipStatus {
	if app == nil || app.Status == domain.ApplicationStatusWithdrawn {
		return domain.FullMembershipNotApplied
	}
	return domain.FullMembershipStatus(app.Status)
}

func (s *consistencyService) CheckUser(ctx context.Context, userID int32) (*domain.ConsistencyReport, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapReadError(err, "user %d not found", userID)
	}

	var app *domain.Application
	latest, err := s.fullApps.GetLatestByUser(ctx, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, mapStoreError(err)
	}
	if err == nil {
		app = latest
	}

	discrepancies := []domain.Discrepancy{}

	expected := mirroredStatus(app)
	if user.FullMembershipStatus != expected {
		discrepancies = append(discrepancies, domain.Discrepancy{
			Field:            "full_membership_status",
			UserValue:        string(user.FullMembershipStatus),
			ApplicationValue: string(expected),
		})
	}

	shouldBeMember := app != nil && app.Status == domain.ApplicationStatusApproved
	isMemberStage := user.MembershipStage == domain.MembershipStageMember
	if isMemberStage != shouldBeMember {
		discrepancies = append(discrepancies, domain.Discrepancy{
			Field:            "membership_stage",
			UserValue:        string(user.MembershipStage),
			ApplicationValue: fmt.Sprintf("approved_application=%t", shouldBeMember),
		})
	}

	if user.IsMember != isMemberStage {
		discrepancies = append(discrepancies, domain.Discrepancy{
			Field:            "is_member",
			UserValue:        fmt.Sprintf("%t", user.IsMember),
			ApplicationValue: fmt.Sprintf("%t", isMemberStage),
		})
	}

	if app != nil && app.Status != domain.ApplicationStatusWithdrawn && user.FullMembershipTicket != app.Ticket {
		discrepancies = append(discrepancies, domain.Discrepancy{
			Field:            "full_membership_ticket",
			UserValue:        user.FullMembershipTicket,
			ApplicationValue: app.Ticket,
		})
	}

	if shouldBeMember {
		if _, err := s.grantRepo.GetByUser(ctx, userID); errors.Is(err, sql.ErrNoRows) {
			discrepancies = append(discrepancies, domain.Discrepancy{
				Field:            "access_grant",
				UserValue:        "missing",
				ApplicationValue: "expected for approved application",
			})
		} else if err != nil {
			return nil, mapStoreError(err)
		}
	}

	return &domain.ConsistencyReport{
		UserID:        userID,
		Consistent:    len(discrepancies) == 0,
		Discrepancies: discrepancies,
	}, nil
}

func (s *consistencyService) CheckAll(ctx context.Context) ([]domain.ConsistencyReport, error) {
	ids, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}

	reports := make([]domain.ConsistencyReport, 0, len(ids))
	for _, id := range ids {
		report, err := s.CheckUser(ctx, id)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}
