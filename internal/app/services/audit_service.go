package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/emre/akademix/internal/app/models"
	"github.com/emre/akademix/internal/app/repositories"
)

// AuditService exposes the read side of the audit log. Writes happen inside
// the mutating services' transactions, never through this service.
type AuditService struct {
	auditRepo repositories.IAuditRepository
	logger    zerolog.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(auditRepo repositories.IAuditRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// ListRecent returns a page of audit entries, newest first.
func (s *AuditService) ListRecent(ctx context.Context, page, size int) ([]*models.AuditLog, int64, error) {
	offset, limit := calcPage(page, size)
	entries, err := s.auditRepo.ListRecent(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.auditRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
