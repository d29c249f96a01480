package service_test

import (
	"context"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"
	"memberhub-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// Mock implementations of the repository and notification dependencies,
// shared by the service tests in this package.

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListIDs(ctx context.Context) ([]int32, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int32), args.Error(1)
}

type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) GetByID(ctx context.Context, id int32) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepository) GetLatestByUser(ctx context.Context, userID int32) (*domain.Application, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepository) ListByStatus(ctx context.Context, status domain.ApplicationStatus, limit, offset int32) ([]domain.Application, int32, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Application), args.Get(1).(int32), args.Error(2)
}

type MockAccessGrantRepository struct {
	mock.Mock
}

func (m *MockAccessGrantRepository) GetByUser(ctx context.Context, userID int32) (*domain.AccessGrant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessGrant), args.Error(1)
}

func (m *MockAccessGrantRepository) RecordAccess(ctx context.Context, userID int32) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) ListRecent(ctx context.Context, limit, offset int32) ([]domain.AuditLogEntry, int32, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.AuditLogEntry), args.Get(1).(int32), args.Error(2)
}

type MockMembershipTxRepository struct {
	mock.Mock
}

func (m *MockMembershipTxRepository) SubmitApplication(ctx context.Context, kind domain.ApplicationKind, app *domain.Application, entry *domain.AuditLogEntry) error {
	args := m.Called(ctx, kind, app, entry)
	return args.Error(0)
}

func (m *MockMembershipTxRepository) ApplyReview(ctx context.Context, kind domain.ApplicationKind, upd repository.ReviewUpdate, entry *domain.AuditLogEntry) error {
	args := m.Called(ctx, kind, upd, entry)
	return args.Error(0)
}

func (m *MockMembershipTxRepository) AmendAnswers(ctx context.Context, kind domain.ApplicationKind, userID int32, answers string, entry *domain.AuditLogEntry) error {
	args := m.Called(ctx, kind, userID, answers, entry)
	return args.Error(0)
}

func (m *MockMembershipTxRepository) WithdrawApplication(ctx context.Context, kind domain.ApplicationKind, userID int32, entry *domain.AuditLogEntry) error {
	args := m.Called(ctx, kind, userID, entry)
	return args.Error(0)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendSubmissionReceipt(ctx context.Context, email, name string, kind domain.ApplicationKind, ticket string) error {
	args := m.Called(ctx, email, name, kind, ticket)
	return args.Error(0)
}

func (m *MockEmailService) SendDecisionNotification(ctx context.Context, email, name string, kind domain.ApplicationKind, decision domain.ApplicationStatus, adminNotes string) error {
	args := m.Called(ctx, email, name, kind, decision, adminNotes)
	return args.Error(0)
}

func (m *MockEmailService) SendAdminAlert(ctx context.Context, email, subject, message string) error {
	args := m.Called(ctx, email, subject, message)
	return args.Error(0)
}

// Interface conformance checks.
var (
	_ repository.UserRepository         = (*MockUserRepository)(nil)
	_ repository.ApplicationRepository  = (*MockApplicationRepository)(nil)
	_ repository.AccessGrantRepository  = (*MockAccessGrantRepository)(nil)
	_ repository.AuditLogRepository     = (*MockAuditLogRepository)(nil)
	_ repository.MembershipTxRepository = (*MockMembershipTxRepository)(nil)
	_ service.EmailService              = (*MockEmailService)(nil)
)
