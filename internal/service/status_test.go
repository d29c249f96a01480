package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newStatusFixture() (*MockUserRepository, *MockApplicationRepository, *MockApplicationRepository, *MockAccessGrantRepository, service.StatusService) {
	userRepo := new(MockUserRepository)
	initialApps := new(MockApplicationRepository)
	fullApps := new(MockApplicationRepository)
	grantRepo := new(MockAccessGrantRepository)
	svc := service.NewStatusService(userRepo, initialApps, fullApps, grantRepo)
	return userRepo, initialApps, fullApps, grantRepo, svc
}

func TestStatusService_GetFullMembershipStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("NotAppliedSentinel", func(t *testing.T) {
		userRepo, _, fullApps, grantRepo, svc := newStatusFixture()

		user := &domain.User{ID: 3, MembershipStage: domain.MembershipStagePreMember}
		userRepo.On("GetByID", ctx, int32(3)).Return(user, nil)
		fullApps.On("GetLatestByUser", ctx, int32(3)).Return(nil, sql.ErrNoRows)

		view, err := svc.GetFullMembershipStatus(ctx, 3, false)
		assert.NoError(t, err)
		assert.Equal(t, "NOT_APPLIED", view.Status)
		assert.Equal(t, domain.MembershipStagePreMember, view.MembershipStage)
		assert.Empty(t, view.Ticket)
		grantRepo.AssertNotCalled(t, "RecordAccess", mock.Anything, mock.Anything)
	})

	t.Run("PendingApplication", func(t *testing.T) {
		userRepo, _, fullApps, grantRepo, svc := newStatusFixture()

		submitted := time.Now().Add(-time.Hour)
		user := &domain.User{ID: 3, MembershipStage: domain.MembershipStagePreMember}
		userRepo.On("GetByID", ctx, int32(3)).Return(user, nil)
		fullApps.On("GetLatestByUser", ctx, int32(3)).Return(&domain.Application{
			ID: 42, UserID: 3, Ticket: "TCK-001", Answers: `{"q1":"a1"}`,
			Status: domain.ApplicationStatusPending, SubmittedOn: submitted,
		}, nil)

		view, err := svc.GetFullMembershipStatus(ctx, 3, true)
		assert.NoError(t, err)
		assert.Equal(t, "PENDING", view.Status)
		assert.Equal(t, "TCK-001", view.Ticket)
		assert.Equal(t, submitted, *view.AppliedOn)
		grantRepo.AssertNotCalled(t, "RecordAccess", mock.Anything, mock.Anything)
	})

	t.Run("ApprovedSelfReadRecordsAccess", func(t *testing.T) {
		userRepo, _, fullApps, grantRepo, svc := newStatusFixture()

		reviewed := time.Now()
		user := &domain.User{ID: 3, MembershipStage: domain.MembershipStageMember, IsMember: true}
		userRepo.On("GetByID", ctx, int32(3)).Return(user, nil)
		fullApps.On("GetLatestByUser", ctx, int32(3)).Return(&domain.Application{
			ID: 42, UserID: 3, Ticket: "TCK-001",
			Status: domain.ApplicationStatusApproved, SubmittedOn: reviewed.Add(-time.Hour), ReviewedOn: &reviewed,
		}, nil)
		grantRepo.On("RecordAccess", ctx, int32(3)).Return(nil)

		view, err := svc.GetFullMembershipStatus(ctx, 3, true)
		assert.NoError(t, err)
		assert.Equal(t, "APPROVED", view.Status)
		assert.Equal(t, domain.MembershipStageMember, view.MembershipStage)
		grantRepo.AssertExpectations(t)
	})

	t.Run("ApprovedAdminReadSkipsAccess", func(t *testing.T) {
		userRepo, _, fullApps, grantRepo, svc := newStatusFixture()

		user := &domain.User{ID: 3, MembershipStage: domain.MembershipStageMember, IsMember: true}
		userRepo.On("GetByID", ctx, int32(3)).Return(user, nil)
		fullApps.On("GetLatestByUser", ctx, int32(3)).Return(&domain.Application{
			ID: 42, UserID: 3, Status: domain.ApplicationStatusApproved, SubmittedOn: time.Now(),
		}, nil)

		_, err := svc.GetFullMembershipStatus(ctx, 3, false)
		assert.NoError(t, err)
		grantRepo.AssertNotCalled(t, "RecordAccess", mock.Anything, mock.Anything)
	})

	t.Run("DeclinedIncludesNotes", func(t *testing.T) {
		userRepo, _, fullApps, _, svc := newStatusFixture()

		user := &domain.User{ID: 4, MembershipStage: domain.MembershipStagePreMember}
		userRepo.On("GetByID", ctx, int32(4)).Return(user, nil)
		fullApps.On("GetLatestByUser", ctx, int32(4)).Return(&domain.Application{
			ID: 43, UserID: 4, Status: domain.ApplicationStatusDeclined,
			SubmittedOn: time.Now(), AdminNotes: "insufficient history",
		}, nil)

		view, err := svc.GetFullMembershipStatus(ctx, 4, false)
		assert.NoError(t, err)
		assert.Equal(t, "DECLINED", view.Status)
		assert.Equal(t, "insufficient history", view.AdminNotes)
	})

	t.Run("UserNotFound", func(t *testing.T) {
		userRepo, _, _, _, svc := newStatusFixture()

		userRepo.On("GetByID", ctx, int32(99)).Return(nil, sql.ErrNoRows)

		view, err := svc.GetFullMembershipStatus(ctx, 99, false)
		assert.Nil(t, view)
		assert.True(t, domain.IsType(err, domain.ErrorTypeNotFound))
	})
}

func TestStatusService_CheckSurveyStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("NotCompleted", func(t *testing.T) {
		userRepo, initialApps, _, _, svc := newStatusFixture()

		user := &domain.User{ID: 5, MembershipStage: domain.MembershipStageApplicant,
			FullMembershipStatus: domain.FullMembershipNotApplied}
		userRepo.On("GetByID", ctx, int32(5)).Return(user, nil)
		initialApps.On("GetLatestByUser", ctx, int32(5)).Return(nil, sql.ErrNoRows)

		view, err := svc.CheckSurveyStatus(ctx, 5)
		assert.NoError(t, err)
		assert.False(t, view.SurveyCompleted)
		assert.Equal(t, "NOT_APPLIED", view.SurveyStatus)
	})

	t.Run("Completed", func(t *testing.T) {
		userRepo, initialApps, _, _, svc := newStatusFixture()

		submitted := time.Now().Add(-24 * time.Hour)
		user := &domain.User{ID: 5, MembershipStage: domain.MembershipStagePreMember,
			FullMembershipStatus: domain.FullMembershipPending}
		userRepo.On("GetByID", ctx, int32(5)).Return(user, nil)
		initialApps.On("GetLatestByUser", ctx, int32(5)).Return(&domain.Application{
			ID: 8, UserID: 5, Status: domain.ApplicationStatusApproved, SubmittedOn: submitted,
		}, nil)

		view, err := svc.CheckSurveyStatus(ctx, 5)
		assert.NoError(t, err)
		assert.True(t, view.SurveyCompleted)
		assert.Equal(t, "APPROVED", view.SurveyStatus)
		assert.Equal(t, submitted, *view.SubmittedOn)
		assert.Equal(t, domain.FullMembershipPending, view.FullMembershipStatus)
	})
}
