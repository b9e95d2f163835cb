package model

type SubmitRequest struct {
	WorkspaceID string   `json:"workspace_id"`
	ActivityID  string   `json:"activity_id"`
	TextContent string   `json:"text_content"`
	FileURLs    []string `json:"file_urls"`
	LinkURL     string   `json:"link_url"`
}

type SubmitResponse Submission

type ResubmitRequest struct {
	WorkspaceID  string   `json:"workspace_id"`
	SubmissionID string   `json:"submission_id"`
	TextContent  string   `json:"text_content"`
	FileURLs     []string `json:"file_urls"`
	LinkURL      string   `json:"link_url"`
}

type ResubmitResponse Submission

type GetSubmissionRequest struct {
	WorkspaceID  string `json:"workspace_id"`
	SubmissionID string `json:"submission_id"`
}

type GetSubmissionResponse Submission

type GetListSubmissionRequest struct {
	WorkspaceID string `json:"workspace_id"`
	ChallengeID string `json:"challenge_id"`
	Status      string `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetListSubmissionResponse struct {
	Submissions []Submission `json:"submissions"`
}

type ReviewSubmissionRequest struct {
	WorkspaceID   string  `json:"workspace_id"`
	SubmissionID  string  `json:"submission_id"`
	Status        string  `json:"status"`
	ReviewNotes   string  `json:"review_notes"`
	PointsAwarded int64   `json:"points_awarded"`
	Reward        *Reward `json:"reward"`
}

type ReviewSubmissionResponse struct {
	Submission Submission      `json:"submission"`
	Issuance   *RewardIssuance `json:"issuance,omitempty"`
}

type ManagerReviewSubmissionRequest struct {
	WorkspaceID  string `json:"workspace_id"`
	SubmissionID string `json:"submission_id"`
	Action       string `json:"action"`
	Notes        string `json:"notes"`
}

type ManagerReviewSubmissionResponse Submission
