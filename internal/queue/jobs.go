package queue

// Job routing keys. Each job has a durable queue of the same name bound to
// the application exchange.
const (
	JobProcessInboundMessage = "process-inbound-message"
	JobSendMessage           = "send-message"
	JobProcessKnowledgeFile  = "process-knowledge-file"
)

// ProcessInboundMessagePayload carries a persisted inbound message to the
// response worker.
type ProcessInboundMessagePayload struct {
	ChatSessionID   string `json:"chatSessionId"`
	ChatMessageID   string `json:"chatMessageId"`
	ChatAgentID     string `json:"chatAgentId"`
	CustomerID      string `json:"customerId"`
	CustomerStaffID string `json:"customerStaffId"`
	Platform        string `json:"platform"`
	Message         string `json:"message"`
}

// SendMessagePayload carries a persisted outbound message to the delivery
// worker.
type SendMessagePayload struct {
	ChatMessageID string `json:"chatMessageId"`
}

// ProcessKnowledgeFilePayload carries a knowledge file to the extraction
// worker.
type ProcessKnowledgeFilePayload struct {
	KnowledgeFileID string `json:"knowledgeFileId"`
}
