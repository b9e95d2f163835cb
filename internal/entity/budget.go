package entity

import "database/sql"

// PointsBudget is the points pool of a workspace, or of a single challenge
// when ChallengeID is set. Allocated never exceeds TotalBudget.
type PointsBudget struct {
	Base

	WorkspaceID string         `gorm:"uniqueIndex:idx_points_budget_scope"`
	ChallengeID sql.NullString `gorm:"uniqueIndex:idx_points_budget_scope"`

	TotalBudget int64
	Allocated   int64
}

func (b *PointsBudget) Remaining() int64 {
	return b.TotalBudget - b.Allocated
}
