package model

import "github.com/shopspring/decimal"

type Submission struct {
	ID          string   `json:"id"`
	ActivityID  string   `json:"activity_id"`
	ChallengeID string   `json:"challenge_id"`
	UserID      string   `json:"user_id"`
	Status      string   `json:"status"`
	TextContent string   `json:"text_content"`
	FileURLs    []string `json:"file_urls"`
	LinkURL     string   `json:"link_url"`
	SubmittedAt string   `json:"submitted_at"`

	ManagerReviewedAt string `json:"manager_reviewed_at,omitempty"`
	ManagerReviewedBy string `json:"manager_reviewed_by,omitempty"`
	ManagerNotes      string `json:"manager_notes,omitempty"`

	ReviewedAt  string `json:"reviewed_at,omitempty"`
	ReviewedBy  string `json:"reviewed_by,omitempty"`
	ReviewNotes string `json:"review_notes,omitempty"`

	PointsAwarded int64 `json:"points_awarded"`
}

type Reward struct {
	Type     string          `json:"type"`
	// Amount accepts both a JSON number and a quoted decimal string.
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
	SkuID    string          `json:"sku_id,omitempty"`
	Provider string          `json:"provider,omitempty"`
}

type RewardIssuance struct {
	ID                    string `json:"id"`
	WorkspaceID           string `json:"workspace_id"`
	UserID                string `json:"user_id"`
	ChallengeID           string `json:"challenge_id"`
	SubmissionID          string `json:"submission_id,omitempty"`
	Type                  string `json:"type"`
	Amount                string `json:"amount"`
	Currency              string `json:"currency,omitempty"`
	SkuID                 string `json:"sku_id,omitempty"`
	Provider              string `json:"provider,omitempty"`
	Status                string `json:"status"`
	ExternalTransactionID string `json:"external_transaction_id,omitempty"`
	Error                 string `json:"error,omitempty"`
	IssuedAt              string `json:"issued_at,omitempty"`
	CreatedAt             string `json:"created_at"`
}

type ChallengeAssignment struct {
	ManagerID   string `json:"manager_id"`
	ChallengeID string `json:"challenge_id"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
}

type PointsBudget struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	ChallengeID string `json:"challenge_id,omitempty"`
	TotalBudget int64  `json:"total_budget"`
	Allocated   int64  `json:"allocated"`
	Remaining   int64  `json:"remaining"`
}

type EventLog struct {
	ID            string         `json:"id"`
	EntityType    string         `json:"entity_type"`
	EntityID      string         `json:"entity_id"`
	Action        string         `json:"action"`
	ActorID       string         `json:"actor_id"`
	FromStatus    string         `json:"from_status,omitempty"`
	ToStatus      string         `json:"to_status,omitempty"`
	RewardAmount  string         `json:"reward_amount"`
	AdminOverride bool           `json:"admin_override"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     string         `json:"created_at"`
}
