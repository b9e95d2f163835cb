package model

type GetListRewardIssuanceRequest struct {
	WorkspaceID  string `json:"workspace_id"`
	UserID       string `json:"user_id"`
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetListRewardIssuanceResponse struct {
	Issuances []RewardIssuance `json:"issuances"`
}

type GetMyRewardIssuanceRequest struct {
	WorkspaceID string `json:"workspace_id"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMyRewardIssuanceResponse struct {
	Issuances []RewardIssuance `json:"issuances"`
}

type GrantRewardRequest struct {
	WorkspaceID string `json:"workspace_id"`
	UserID      string `json:"user_id"`
	ChallengeID string `json:"challenge_id"`
	Reward      Reward `json:"reward"`
}

type GrantRewardResponse RewardIssuance

type RetryRewardIssuanceRequest struct {
	WorkspaceID string `json:"workspace_id"`
	IssuanceID  string `json:"issuance_id"`
}

type RetryRewardIssuanceResponse RewardIssuance

type CancelRewardIssuanceRequest struct {
	WorkspaceID string `json:"workspace_id"`
	IssuanceID  string `json:"issuance_id"`
}

type CancelRewardIssuanceResponse RewardIssuance

type RewardCallbackRequest struct {
	Provider      string `json:"provider"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Reason        string `json:"reason"`
}

type RewardCallbackResponse struct {
	IssuanceID string `json:"issuance_id"`
	Status     string `json:"status"`
}
