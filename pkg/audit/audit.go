package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casedesk/casedesk-backend/pkg/models"
)

// Record appends an audit log entry for a mutating action.
// Errors are ignored on purpose (best-effort logging); the audit write is not
// transactional with the primary write.
func Record(
	ctx context.Context,
	db *gorm.DB,
	actorID uuid.UUID,
	action, entityType string,
	entityID *uuid.UUID,
	metadata map[string]any,
) {
	_ = db.WithContext(ctx).Create(&models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
	}).Error
}
