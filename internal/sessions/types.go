package sessions

import "time"

// Session lifecycle states.
const (
	StatusActive  = "active"
	StatusExpired = "expired"
	StatusClosed  = "closed"
)

type ChatSession struct {
	ID              string         `json:"id"`
	ChatAgentID     string         `json:"chat_agent_id"`
	CustomerID      string         `json:"customer_id"`
	CustomerStaffID string         `json:"customer_staff_id"`
	Platform        string         `json:"platform"`
	ThreadID        string         `json:"thread_id,omitempty"`
	SessionData     map[string]any `json:"session_data,omitempty"`
	Status          string         `json:"status"`
	ExpiresAt       time.Time      `json:"expires_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Scope identifies the conversation a session belongs to. One open session
// exists per scope at a time.
type Scope struct {
	ChatAgentID     string
	CustomerID      string
	CustomerStaffID string
	Platform        string
	ThreadID        string
}

type ListSessionsResponse struct {
	Items []ChatSession `json:"items"`
}
