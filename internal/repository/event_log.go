package repository

import (
	"context"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/pkg/xcontext"
)

type EventLogFilter struct {
	EntityType entity.EventEntityType
	EntityID   string
}

// EventLogRepository has no update nor delete method, the audit log is
// append-only.
type EventLogRepository interface {
	Create(ctx context.Context, data *entity.EventLog) error
	GetList(ctx context.Context, workspaceID string, filter *EventLogFilter, offset, limit int) ([]entity.EventLog, error)
}

type eventLogRepository struct{}

func NewEventLogRepository() *eventLogRepository {
	return &eventLogRepository{}
}

func (r *eventLogRepository) Create(ctx context.Context, data *entity.EventLog) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *eventLogRepository) GetList(
	ctx context.Context,
	workspaceID string,
	filter *EventLogFilter,
	offset, limit int,
) ([]entity.EventLog, error) {
	var result []entity.EventLog
	tx := xcontext.DB(ctx).
		Where("workspace_id=?", workspaceID).
		Offset(offset).
		Limit(limit).
		Order("id DESC")

	if filter.EntityType != "" {
		tx.Where("entity_type=?", filter.EntityType)
	}

	if filter.EntityID != "" {
		tx.Where("entity_id=?", filter.EntityID)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
