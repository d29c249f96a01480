package service

import (
	"context"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"
)

type auditService struct {
	auditRepo repository.AuditLogRepository
}

func NewAuditService(auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) ListRecent(ctx context.Context, limit, offset int32) ([]domain.AuditLogEntry, int32, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	entries, total, err := s.auditRepo.ListRecent(ctx, limit, offset)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	return entries, total, nil
}
