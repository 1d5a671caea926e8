package knowledge

import "time"

// Knowledge file lifecycle states.
const (
	FileStatusPending   = "pending"
	FileStatusProcessed = "processed"
	FileStatusFailed    = "failed"
)

type Knowledge struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type File struct {
	ID            string    `json:"id"`
	KnowledgeID   string    `json:"knowledge_id"`
	Name          string    `json:"name"`
	ContentType   string    `json:"content_type,omitempty"`
	SourceURL     string    `json:"source_url"`
	ExtractedText string    `json:"extracted_text,omitempty"`
	Status        string    `json:"status"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Association struct {
	ID          string    `json:"id"`
	ChatAgentID string    `json:"chat_agent_id"`
	KnowledgeID string    `json:"knowledge_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// AgentContext is the knowledge scope handed to response generation: one
// knowledge base and its processed files.
type AgentContext struct {
	KnowledgeID string
	FileIDs     []string
}

type CreateKnowledgeRequest struct {
	CustomerID  string `json:"customer_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type AddFileRequest struct {
	KnowledgeID string `json:"knowledge_id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	SourceURL   string `json:"source_url"`
}

type ListKnowledgesResponse struct {
	Items []Knowledge `json:"items"`
}

type ListFilesResponse struct {
	Items []File `json:"items"`
}

type ListAssociationsResponse struct {
	Items []Association `json:"items"`
}
