package model

type GetBudgetRequest struct {
	WorkspaceID string `json:"workspace_id"`
	ChallengeID string `json:"challenge_id"`
}

type GetBudgetResponse PointsBudget

type SetBudgetRequest struct {
	WorkspaceID string `json:"workspace_id"`
	ChallengeID string `json:"challenge_id"`
	TotalBudget int64  `json:"total_budget"`
}

type SetBudgetResponse PointsBudget
