package entity

import (
	"database/sql"

	"github.com/questx-lab/challenge/pkg/enum"
	"github.com/shopspring/decimal"
)

type RewardType string

var (
	PointsReward   = enum.New(RewardType("points"))
	SkuReward      = enum.New(RewardType("sku"))
	MonetaryReward = enum.New(RewardType("monetary"))
)

type RewardIssuanceStatus string

var (
	IssuancePending   = enum.New(RewardIssuanceStatus("PENDING"))
	IssuanceIssued    = enum.New(RewardIssuanceStatus("ISSUED"))
	IssuanceFailed    = enum.New(RewardIssuanceStatus("FAILED"))
	IssuanceCancelled = enum.New(RewardIssuanceStatus("CANCELLED"))
)

type RewardIssuance struct {
	Base

	WorkspaceID  string         `gorm:"index"`
	UserID       string         `gorm:"index"`
	ChallengeID  string         `gorm:"index"`
	SubmissionID sql.NullString `gorm:"index:idx_reward_issuance_key"`
	Type         RewardType     `gorm:"index:idx_reward_issuance_key"`

	Amount   decimal.Decimal `gorm:"type:decimal(20,4)"`
	Currency string
	SkuID    string
	Provider string

	// BudgetID is the points budget the amount was reserved from.
	BudgetID sql.NullString

	Status                RewardIssuanceStatus `gorm:"index"`
	ExternalTransactionID sql.NullString       `gorm:"index"`
	Error                 string
	IssuedAt              sql.NullTime
	CreatedBy             string
}
