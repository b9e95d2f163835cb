package model

type AssignManagerRequest struct {
	WorkspaceID string `json:"workspace_id"`
	ChallengeID string `json:"challenge_id"`
	ManagerID   string `json:"manager_id"`
}

type AssignManagerResponse ChallengeAssignment

type UnassignManagerRequest struct {
	WorkspaceID string `json:"workspace_id"`
	ChallengeID string `json:"challenge_id"`
	ManagerID   string `json:"manager_id"`
}

type UnassignManagerResponse struct{}

type GetListAssignmentRequest struct {
	WorkspaceID string `json:"workspace_id"`
	ChallengeID string `json:"challenge_id"`
}

type GetListAssignmentResponse struct {
	Assignments []ChallengeAssignment `json:"assignments"`
}
