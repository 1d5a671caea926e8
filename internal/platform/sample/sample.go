// Package sample implements a minimal webhook adapter used for integration
// exercises and as a template for new platforms. Deliveries are plain JSON
// authenticated by a shared token header; sends are logged rather than
// delivered anywhere.
package sample

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/platform"
)

// Type is the registered platform identifier for the sample adapter.
const Type = platform.Sample

const headerToken = "X-Webhook-Token"

// Adapter accepts pre-normalized JSON events guarded by a shared token.
type Adapter struct {
	cfg    config.SampleConfig
	logger *slog.Logger
}

// New creates a sample adapter.
func New(cfg config.SampleConfig, log *slog.Logger) *Adapter {
	return &Adapter{
		cfg:    cfg,
		logger: log.With(slog.String("adapter", "sample")),
	}
}

func (a *Adapter) Platform() platform.Platform {
	return Type
}

type eventPayload struct {
	UserID      string `json:"userId"`
	WorkspaceID string `json:"workspaceId"`
	ChannelID   string `json:"channelId"`
	MessageID   string `json:"messageId"`
	ChatType    string `json:"chatType"`
	Text        string `json:"text"`
}

// HandleWebhook checks the shared token when one is configured and normalizes
// the payload.
func (a *Adapter) HandleWebhook(ctx context.Context, req platform.WebhookRequest) (platform.WebhookResult, error) {
	token := strings.TrimSpace(a.cfg.Token)
	if token != "" {
		presented := strings.TrimSpace(req.Headers.Get(headerToken))
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			return platform.WebhookResult{}, fmt.Errorf("sample token mismatch: %w", platform.ErrAuthFailed)
		}
	}

	var payload eventPayload
	if err := json.Unmarshal(req.Body, &payload); err != nil {
		a.logger.Warn("undecodable event payload", slog.Any("error", err))
		return platform.WebhookResult{Ack: platform.IgnoredAck()}, nil
	}

	userID := strings.TrimSpace(payload.UserID)
	workspaceID := strings.TrimSpace(payload.WorkspaceID)
	if userID == "" || workspaceID == "" {
		a.logger.Error("event missing required fields",
			slog.String("user_id", userID),
			slog.String("workspace_id", workspaceID))
		return platform.WebhookResult{Ack: platform.EmptyAck()}, nil
	}
	text := strings.TrimSpace(payload.Text)
	if text == "" {
		return platform.WebhookResult{Ack: platform.IgnoredAck()}, nil
	}

	event := &platform.InboundEvent{
		Platform:       Type,
		WorkspaceID:    workspaceID,
		PlatformUserID: userID,
		ChannelID:      strings.TrimSpace(payload.ChannelID),
		MessageID:      strings.TrimSpace(payload.MessageID),
		ChatType:       strings.TrimSpace(payload.ChatType),
		Text:           text,
	}
	return platform.WebhookResult{Ack: platform.EmptyAck(), Event: event}, nil
}

// Send logs the outbound message. The sample platform has no real backend.
func (a *Adapter) Send(ctx context.Context, msg platform.OutboundMessage) error {
	if strings.TrimSpace(msg.Target) == "" {
		return fmt.Errorf("sample target is required")
	}
	a.logger.Info("send",
		slog.String("target", msg.Target),
		slog.String("text", msg.Text))
	return nil
}
