package entity

import (
	"github.com/questx-lab/challenge/pkg/enum"
	"gorm.io/datatypes"
)

type EventEntityType string

var (
	SubmissionEntity     = enum.New(EventEntityType("submission"))
	RewardIssuanceEntity = enum.New(EventEntityType("reward_issuance"))
	AssignmentEntity     = enum.New(EventEntityType("challenge_assignment"))
	BudgetEntity         = enum.New(EventEntityType("points_budget"))
)

// EventLog is an append-only audit record. Rows are never updated nor
// deleted.
type EventLog struct {
	SnowFlakeBase

	WorkspaceID string          `gorm:"index"`
	EntityType  EventEntityType `gorm:"index:idx_event_log_entity"`
	EntityID    string          `gorm:"index:idx_event_log_entity"`
	Action      string
	ActorID     string

	FromStatus    string
	ToStatus      string
	RewardAmount  string
	AdminOverride bool

	Metadata datatypes.JSONMap
}
