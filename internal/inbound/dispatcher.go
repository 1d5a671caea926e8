// Package inbound turns normalized platform events into persisted chat
// messages and queued processing work.
package inbound

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dojotek/chatbot/internal/agents"
	"github.com/dojotek/chatbot/internal/channels"
	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/messages"
	"github.com/dojotek/chatbot/internal/platform"
	"github.com/dojotek/chatbot/internal/queue"
	"github.com/dojotek/chatbot/internal/sessions"
	"github.com/dojotek/chatbot/internal/staff"
)

// ChannelService resolves the agent channel registered for a workspace.
type ChannelService interface {
	Resolve(ctx context.Context, platform, workspaceID string) (channels.ChatChannel, error)
}

// AgentService loads chat agents.
type AgentService interface {
	Get(ctx context.Context, chatAgentID string) (agents.ChatAgent, error)
}

// StaffService resolves platform senders, provisioning on first contact.
type StaffService interface {
	EnsureIdentity(ctx context.Context, customerID, platform, platformUserID string) (staff.Identity, error)
}

// SessionService finds or creates the open session for a scope.
type SessionService interface {
	GetOrCreate(ctx context.Context, scope sessions.Scope) (string, error)
}

// MessageWriter persists chat messages.
type MessageWriter interface {
	Create(ctx context.Context, req messages.CreateMessageRequest) (messages.ChatMessage, error)
}

// Deduper provides the first-writer-wins marker used to suppress webhook
// redeliveries.
type Deduper interface {
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}

// Publisher enqueues background jobs.
type Publisher interface {
	PublishJob(ctx context.Context, job string, payload any) error
}

// Dispatcher runs the ingestion pipeline for one normalized event:
// channel, agent, and sender resolution, deduplication, persistence, and
// job enqueue.
type Dispatcher struct {
	channels ChannelService
	agents   AgentService
	staff    StaffService
	sessions SessionService
	messages MessageWriter
	dedup    Deduper
	jobs     Publisher
	window   time.Duration
	logger   *slog.Logger
}

func NewDispatcher(
	log *slog.Logger,
	channelService ChannelService,
	agentService AgentService,
	staffService StaffService,
	sessionService SessionService,
	messageWriter MessageWriter,
	dedup Deduper,
	jobs Publisher,
	cfg config.DedupConfig,
) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		channels: channelService,
		agents:   agentService,
		staff:    staffService,
		sessions: sessionService,
		messages: messageWriter,
		dedup:    dedup,
		jobs:     jobs,
		window:   cfg.Window(),
		logger:   log.With(slog.String("component", "inbound")),
	}
}

// Dispatch processes one inbound event. A nil return means the event was
// handled or deliberately skipped; errors are transient failures the
// caller logs without failing the webhook response.
func (d *Dispatcher) Dispatch(ctx context.Context, event platform.InboundEvent) error {
	text := strings.TrimSpace(event.Text)
	if text == "" {
		return nil
	}

	channel, err := d.channels.Resolve(ctx, string(event.Platform), event.WorkspaceID)
	if err != nil {
		if errors.Is(err, channels.ErrChannelNotFound) {
			d.logger.Warn("no active channel for workspace",
				slog.String("platform", string(event.Platform)),
				slog.String("workspace_id", event.WorkspaceID),
			)
			return nil
		}
		return fmt.Errorf("resolve channel: %w", err)
	}

	agent, err := d.agents.Get(ctx, channel.ChatAgentID)
	if err != nil {
		if errors.Is(err, agents.ErrChatAgentNotFound) {
			d.logger.Warn("channel references missing chat agent",
				slog.String("chat_channel_id", channel.ID),
				slog.String("chat_agent_id", channel.ChatAgentID),
			)
			return nil
		}
		return fmt.Errorf("load chat agent: %w", err)
	}
	if !agent.IsActive {
		d.logger.Warn("chat agent is inactive", slog.String("chat_agent_id", agent.ID))
		return nil
	}

	identity, err := d.staff.EnsureIdentity(ctx, agent.CustomerID, string(event.Platform), event.PlatformUserID)
	if err != nil {
		return fmt.Errorf("resolve sender: %w", err)
	}

	key := dedupKey(agent.ID, agent.CustomerID, identity.CustomerStaffID, string(event.Platform), text)
	if d.dedup != nil {
		value := event.MessageID
		if value == "" {
			value = "1"
		}
		fresh, err := d.dedup.SetNX(ctx, key, value, d.window)
		if err != nil {
			// Dedup is advisory; losing Redis must not drop messages.
			d.logger.Warn("dedup marker write failed", slog.Any("error", err))
		} else if !fresh {
			d.logger.Info("duplicate message suppressed",
				slog.String("platform", string(event.Platform)),
				slog.String("message_id", event.MessageID),
			)
			return nil
		}
	}

	sessionID, err := d.sessions.GetOrCreate(ctx, sessions.Scope{
		ChatAgentID:     agent.ID,
		CustomerID:      agent.CustomerID,
		CustomerStaffID: identity.CustomerStaffID,
		Platform:        string(event.Platform),
		ThreadID:        event.ChannelID,
	})
	if err != nil {
		return fmt.Errorf("resolve session: %w", err)
	}

	message, err := d.messages.Create(ctx, messages.CreateMessageRequest{
		ChatSessionID: sessionID,
		MessageType:   messages.TypeUser,
		Content:       text,
		Metadata: map[string]any{
			messages.MetaPlatform:    string(event.Platform),
			messages.MetaWorkspaceID: event.WorkspaceID,
			messages.MetaChannelID:   event.ChannelID,
			messages.MetaMessageID:   event.MessageID,
			messages.MetaChatType:    event.ChatType,
		},
	})
	if err != nil {
		return fmt.Errorf("persist message: %w", err)
	}

	err = d.jobs.PublishJob(ctx, queue.JobProcessInboundMessage, queue.ProcessInboundMessagePayload{
		ChatSessionID:   sessionID,
		ChatMessageID:   message.ID,
		ChatAgentID:     agent.ID,
		CustomerID:      agent.CustomerID,
		CustomerStaffID: identity.CustomerStaffID,
		Platform:        string(event.Platform),
		Message:         text,
	})
	if err != nil {
		return fmt.Errorf("enqueue processing: %w", err)
	}

	d.logger.Info("inbound message accepted",
		slog.String("platform", string(event.Platform)),
		slog.String("chat_session_id", sessionID),
		slog.String("chat_message_id", message.ID),
	)
	return nil
}

func dedupKey(chatAgentID, customerID, staffID, platform, text string) string {
	sum := sha256.Sum256([]byte(chatAgentID + "|" + customerID + "|" + staffID + "|" + platform + "|" + text))
	return "dedup:" + hex.EncodeToString(sum[:])
}
