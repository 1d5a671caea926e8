package messages

import "time"

// Message author types.
const (
	TypeUser   = "user"
	TypeAI     = "ai"
	TypeSystem = "system"
)

// Envelope metadata keys. Ingestion writes these when persisting an inbound
// message; delivery reads them back to resolve destinations. Platform payload
// fields never travel under other names.
const (
	MetaPlatform    = "platform"
	MetaWorkspaceID = "workspaceId"
	MetaChannelID   = "channelId"
	MetaMessageID   = "messageId"
	MetaChatType    = "chatType"
)

type ChatMessage struct {
	ID            string         `json:"id"`
	ChatSessionID string         `json:"chat_session_id"`
	MessageType   string         `json:"message_type"`
	Content       string         `json:"content"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// MetaString reads a string envelope field from message metadata, returning
// "" when the key is absent or not a string.
func (m ChatMessage) MetaString(key string) string {
	if value, ok := m.Metadata[key].(string); ok {
		return value
	}
	return ""
}

type CreateMessageRequest struct {
	ChatSessionID string         `json:"chat_session_id"`
	MessageType   string         `json:"message_type"`
	Content       string         `json:"content"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

type ListMessagesResponse struct {
	Items []ChatMessage `json:"items"`
}
