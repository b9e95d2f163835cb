// Package eventlog appends audit events to the database and publishes them to
// the event topic.
package eventlog

import (
	"context"
	"encoding/json"

	"github.com/questx-lab/challenge/internal/entity"
	"github.com/questx-lab/challenge/internal/repository"
	"github.com/questx-lab/challenge/pkg/pubsub"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Event struct {
	WorkspaceID   string
	EntityType    entity.EventEntityType
	EntityID      string
	Action        string
	ActorID       string
	FromStatus    string
	ToStatus      string
	RewardAmount  decimal.Decimal
	AdminOverride bool
	Metadata      map[string]any
}

type Logger struct {
	eventLogRepo repository.EventLogRepository
	publisher    pubsub.Publisher
}

func NewLogger(eventLogRepo repository.EventLogRepository, publisher pubsub.Publisher) *Logger {
	return &Logger{eventLogRepo: eventLogRepo, publisher: publisher}
}

// Append stores the event then publishes it. A publishing failure is only
// logged, the stored row is the source of truth.
func (l *Logger) Append(ctx context.Context, e Event) (*entity.EventLog, error) {
	record := &entity.EventLog{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		WorkspaceID:   e.WorkspaceID,
		EntityType:    e.EntityType,
		EntityID:      e.EntityID,
		Action:        e.Action,
		ActorID:       e.ActorID,
		FromStatus:    e.FromStatus,
		ToStatus:      e.ToStatus,
		RewardAmount:  e.RewardAmount.String(),
		AdminOverride: e.AdminOverride,
		Metadata:      datatypes.JSONMap(e.Metadata),
	}

	if err := l.eventLogRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	l.publish(ctx, record)
	return record, nil
}

func (l *Logger) publish(ctx context.Context, record *entity.EventLog) {
	if l.publisher == nil {
		return
	}

	b, err := json.Marshal(record)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot marshal event %d: %v", record.ID, err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.EventTopic
	pack := &pubsub.Pack{Key: []byte(record.EntityID), Msg: b}
	if err := l.publisher.Publish(ctx, topic, pack); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish event %d to %s: %v", record.ID, topic, err)
	}
}
