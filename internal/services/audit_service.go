package services

import (
	"context"

	"staffhub/internal/apperrors"
	"staffhub/internal/authz"
	"staffhub/internal/models"
	"staffhub/internal/repository"
)

type AuditService struct {
	auditRepo repository.IAuditRepository
}

func NewAuditService(auditRepo repository.IAuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// GetUserAuditTrail returns the audit history of a user. Admin only.
func (s *AuditService) GetUserAuditTrail(ctx context.Context, actor authz.Actor, userID string, limit, offset int) ([]*models.AuditLog, error) {
	decision := authz.Decide(actor, authz.ActionAuditRead, authz.Resource{})
	if !decision.Allowed {
		return nil, apperrors.Forbidden("%s", decision.Reason)
	}

	return s.auditRepo.GetAuditLogsByUser(userID, limit, offset)
}
