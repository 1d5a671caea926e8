// Package workers holds the queue consumers: response generation, outbound
// delivery, and knowledge file processing.
package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dojotek/chatbot/internal/agents"
	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/generation"
	"github.com/dojotek/chatbot/internal/knowledge"
	"github.com/dojotek/chatbot/internal/messages"
	"github.com/dojotek/chatbot/internal/queue"
	"github.com/dojotek/chatbot/internal/sessions"
)

// AgentService loads chat agents.
type AgentService interface {
	Get(ctx context.Context, chatAgentID string) (agents.ChatAgent, error)
}

// SessionService loads chat sessions.
type SessionService interface {
	Get(ctx context.Context, sessionID string) (sessions.ChatSession, error)
}

// MessageStore reads history and persists generated replies.
type MessageStore interface {
	HistoryBefore(ctx context.Context, sessionID, excludeMessageID string, window int) ([]messages.ChatMessage, error)
	Create(ctx context.Context, req messages.CreateMessageRequest) (messages.ChatMessage, error)
}

// KnowledgeService supplies the agent's knowledge scope.
type KnowledgeService interface {
	AgentContext(ctx context.Context, chatAgentID string) (*knowledge.AgentContext, error)
}

// Generator produces reply text.
type Generator interface {
	Generate(ctx context.Context, req generation.Request) (string, error)
}

// Publisher enqueues background jobs.
type Publisher interface {
	PublishJob(ctx context.Context, job string, payload any) error
}

// Responder consumes inbound-message jobs and produces agent replies.
// Entities are reloaded from storage on every run; queue payloads only
// carry identifiers and the triggering text.
type Responder struct {
	agents    AgentService
	sessions  SessionService
	messages  MessageStore
	knowledge KnowledgeService
	generator Generator
	jobs      Publisher
	window    int
	logger    *slog.Logger
}

func NewResponder(
	log *slog.Logger,
	agentService AgentService,
	sessionService SessionService,
	messageStore MessageStore,
	knowledgeService KnowledgeService,
	generator Generator,
	jobs Publisher,
	cfg config.HistoryConfig,
) *Responder {
	if log == nil {
		log = slog.Default()
	}
	window := cfg.Window
	if window <= 0 {
		window = config.DefaultHistoryWindow
	}
	return &Responder{
		agents:    agentService,
		sessions:  sessionService,
		messages:  messageStore,
		knowledge: knowledgeService,
		generator: generator,
		jobs:      jobs,
		window:    window,
		logger:    log.With(slog.String("worker", "respond")),
	}
}

// Handle generates and persists the reply for one inbound message. Missing
// entities are logged and acked; transient failures return an error so the
// queue redelivers.
func (r *Responder) Handle(ctx context.Context, payload queue.ProcessInboundMessagePayload) error {
	agent, err := r.agents.Get(ctx, payload.ChatAgentID)
	if err != nil {
		if errors.Is(err, agents.ErrChatAgentNotFound) {
			r.logger.Warn("chat agent vanished before response",
				slog.String("chat_agent_id", payload.ChatAgentID),
			)
			return nil
		}
		return fmt.Errorf("load chat agent: %w", err)
	}
	session, err := r.sessions.Get(ctx, payload.ChatSessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			r.logger.Warn("chat session vanished before response",
				slog.String("chat_session_id", payload.ChatSessionID),
			)
			return nil
		}
		return fmt.Errorf("load chat session: %w", err)
	}

	history, err := r.messages.HistoryBefore(ctx, session.ID, payload.ChatMessageID, r.window)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	entries := make([]generation.Message, 0, len(history))
	for _, m := range history {
		entries = append(entries, generation.Message{Role: m.MessageType, Content: m.Content})
	}

	req := generation.Request{
		SystemPrompt: agent.SystemPrompt,
		History:      entries,
		Query:        payload.Message,
	}
	kctx, err := r.knowledge.AgentContext(ctx, agent.ID)
	if err != nil {
		return fmt.Errorf("load knowledge context: %w", err)
	}
	if kctx != nil {
		req.KnowledgeID = kctx.KnowledgeID
		req.KnowledgeFileIDs = kctx.FileIDs
	}

	text, err := r.generator.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("generate reply: %w", err)
	}

	reply, err := r.messages.Create(ctx, messages.CreateMessageRequest{
		ChatSessionID: session.ID,
		MessageType:   messages.TypeAI,
		Content:       text,
		Metadata: map[string]any{
			"platform":    session.Platform,
			"respondedTo": payload.ChatMessageID,
		},
	})
	if err != nil {
		return fmt.Errorf("persist reply: %w", err)
	}

	if err := r.jobs.PublishJob(ctx, queue.JobSendMessage, queue.SendMessagePayload{ChatMessageID: reply.ID}); err != nil {
		return fmt.Errorf("enqueue delivery: %w", err)
	}

	r.logger.Info("reply generated",
		slog.String("chat_session_id", session.ID),
		slog.String("chat_message_id", reply.ID),
		slog.Int("history", len(entries)),
	)
	return nil
}
