package service

import (
	"context"
	"database/sql"
	"errors"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"
)

type statusService struct {
	userRepo    repository.UserRepository
	initialApps repository.ApplicationRepository
	fullApps    repository.ApplicationRepository
	grantRepo   repository.AccessGrantRepository
}

func NewStatusService(
	userRepo repository.UserRepository,
	initialApps repository.ApplicationRepository,
	fullApps repository.ApplicationRepository,
	grantRepo repository.AccessGrantRepository,
) StatusService {
	return &statusService{
		userRepo:    userRepo,
		initialApps: initialApps,
		fullApps:    fullApps,
		grantRepo:   grantRepo,
	}
}

func (s *statusService) GetFullMembershipStatus(ctx context.Context, userID int32, recordAccess bool) (*MembershipStatusView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapReadError(err, "user %d not found", userID)
	}

	view := &MembershipStatusView{
		Status:          string(domain.ApplicationStatusNotApplied),
		MembershipStage: user.MembershipStage,
	}

	app, err := s.fullApps.GetLatestByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		// Sentinel, not an error: the user simply has not applied.
		return view, nil
	}
	if err != nil {
		return nil, mapStoreError(err)
	}

	view.Status = string(app.Status)
	view.Ticket = app.Ticket
	appliedOn := app.SubmittedOn
	view.AppliedOn = &appliedOn
	view.ReviewedOn = app.ReviewedOn
	view.AdminNotes = app.AdminNotes
	view.Answers = app.Answers

	if recordAccess && app.Status == domain.ApplicationStatusApproved {
		_ = s.grantRepo.RecordAccess(ctx, userID)
	}

	return view, nil
}

func (s *statusService) CheckSurveyStatus(ctx context.Context, userID int32) (*SurveyStatusView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapReadError(err, "user %d not found", userID)
	}

	view := &SurveyStatusView{
		SurveyStatus:         string(domain.ApplicationStatusNotApplied),
		MembershipStage:      user.MembershipStage,
		FullMembershipStatus: user.FullMembershipStatus,
	}

	app, err := s.initialApps.GetLatestByUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return view, nil
	}
	if err != nil {
		return nil, mapStoreError(err)
	}

	view.SurveyCompleted = true
	view.SurveyStatus = string(app.Status)
	submittedOn := app.SubmittedOn
	view.SubmittedOn = &submittedOn
	return view, nil
}
