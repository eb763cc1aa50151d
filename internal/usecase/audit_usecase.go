package usecase

import (
	"context"

	"github.com/farmasys/cajacentral/internal/domain"
)

// AuditUseCase serves audit log listings.
type AuditUseCase struct {
	auditRepo AuditRepository
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(auditRepo AuditRepository) *AuditUseCase {
	return &AuditUseCase{auditRepo: auditRepo}
}

// ListAuditLogs lists audit logs matching the filter.
func (uc *AuditUseCase) ListAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	return uc.auditRepo.List(ctx, filter)
}
