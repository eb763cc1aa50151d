package usecase

import (
	"context"
	"time"

	"github.com/farmasys/cajacentral/internal/domain"
	"github.com/farmasys/cajacentral/internal/infrastructure/metrics"
)

// auditor writes audit logs after mutating operations. Audit is best-effort:
// a failed write never fails the operation it describes.
type auditor struct {
	repo    AuditRepository
	metrics *metrics.Metrics
}

func (a auditor) record(ctx context.Context, userID, action, resourceType, resourceID string, after map[string]any) {
	if a.repo == nil {
		return
	}

	err := a.repo.Create(ctx, &domain.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		AfterState:   after,
		Status:       domain.AuditStatusSuccess,
		CreatedAt:    time.Now().UTC(),
	})

	if a.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		a.metrics.AuditLogsCreated.WithLabelValues(action, status).Inc()
	}
}
