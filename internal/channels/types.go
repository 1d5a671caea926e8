package channels

import "time"

type ChatChannel struct {
	ID          string         `json:"id"`
	ChatAgentID string         `json:"chat_agent_id"`
	Platform    string         `json:"platform"`
	WorkspaceID string         `json:"workspace_id"`
	Config      map[string]any `json:"config,omitempty"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type CreateChatChannelRequest struct {
	ChatAgentID string         `json:"chat_agent_id"`
	Platform    string         `json:"platform"`
	WorkspaceID string         `json:"workspace_id"`
	Config      map[string]any `json:"config,omitempty"`
}

type ListChatChannelsResponse struct {
	Items []ChatChannel `json:"items"`
}
