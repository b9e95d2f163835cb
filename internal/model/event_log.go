package model

type GetListEventLogRequest struct {
	WorkspaceID string `json:"workspace_id"`
	EntityType  string `json:"entity_type"`
	EntityID    string `json:"entity_id"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetListEventLogResponse struct {
	Events []EventLog `json:"events"`
}
