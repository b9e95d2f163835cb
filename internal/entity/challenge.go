package entity

import (
	"time"

	"github.com/questx-lab/challenge/pkg/enum"
	"gorm.io/datatypes"
)

type ChallengeStatus string

var (
	ChallengeDraft    = enum.New(ChallengeStatus("DRAFT"))
	ChallengeActive   = enum.New(ChallengeStatus("ACTIVE"))
	ChallengeArchived = enum.New(ChallengeStatus("ARCHIVED"))
)

type Challenge struct {
	Base

	WorkspaceID string    `gorm:"index"`
	Workspace   Workspace `gorm:"foreignKey:WorkspaceID"`

	Title     string
	Status    ChallengeStatus
	StartDate time.Time
	EndDate   time.Time

	// RewardType and RewardConfig describe the default reward of an approved
	// submission. An empty RewardType means no default reward.
	RewardType   RewardType
	RewardConfig datatypes.JSONMap

	RequireManagerApproval bool
}

type Activity struct {
	Base

	ChallengeID string    `gorm:"index"`
	Challenge   Challenge `gorm:"foreignKey:ChallengeID"`

	Title  string
	Points int64
}

type Enrollment struct {
	ChallengeID string    `gorm:"primaryKey"`
	Challenge   Challenge `gorm:"foreignKey:ChallengeID"`
	UserID      string    `gorm:"primaryKey"`
	User        User      `gorm:"foreignKey:UserID"`
	CreatedAt   time.Time
}

// ChallengeAssignment grants a manager review rights over the submissions of
// one challenge.
type ChallengeAssignment struct {
	ManagerID   string    `gorm:"primaryKey"`
	Manager     User      `gorm:"foreignKey:ManagerID"`
	ChallengeID string    `gorm:"primaryKey"`
	Challenge   Challenge `gorm:"foreignKey:ChallengeID"`
	WorkspaceID string    `gorm:"primaryKey"`
	Workspace   Workspace `gorm:"foreignKey:WorkspaceID"`
	CreatedBy   string
	CreatedAt   time.Time
}
