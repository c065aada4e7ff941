package services

import (
	"context"
	"encoding/json"
	"time"

	"buildledger/internal/logger"
	"buildledger/internal/models"
	"buildledger/internal/repository"
)

// auditWriteTimeout bounds an audit write detached from the request.
const auditWriteTimeout = 5 * time.Second

// auditService handles audit log recording.
type auditService struct {
	repo repository.CommitmentRepository
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(repo repository.CommitmentRepository) AuditServicer {
	return &auditService{repo: repo}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(profileID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		ProfileID:    profileID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()

	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"profile_id", profileID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}
