// Package slack implements the Slack webhook adapter and message sender.
package slack

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kenshaw/emoji"
	slackapi "github.com/slack-go/slack"

	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/platform"
)

// Type is the registered platform identifier for Slack.
const Type = platform.Slack

const (
	headerSignature = "X-Slack-Signature"
	headerTimestamp = "X-Slack-Request-Timestamp"

	signaturePrefix = "v0"
)

// Adapter verifies Slack Events API deliveries and sends channel replies.
type Adapter struct {
	cfg    config.SlackConfig
	api    *slackapi.Client
	logger *slog.Logger
}

// New creates a Slack adapter. The sender is available only when a bot token
// is configured.
func New(cfg config.SlackConfig, log *slog.Logger) *Adapter {
	a := &Adapter{
		cfg:    cfg,
		logger: log.With(slog.String("adapter", "slack")),
	}
	if strings.TrimSpace(cfg.BotToken) != "" {
		a.api = slackapi.New(cfg.BotToken)
	}
	return a
}

func (a *Adapter) Platform() platform.Platform {
	return Type
}

// eventEnvelope is the subset of the Slack Events API payload the pipeline
// reads.
type eventEnvelope struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	TeamID    string `json:"team_id"`
	Event     struct {
		Type        string `json:"type"`
		User        string `json:"user"`
		BotID       string `json:"bot_id"`
		Channel     string `json:"channel"`
		ChannelType string `json:"channel_type"`
		TS          string `json:"ts"`
		Text        string `json:"text"`
	} `json:"event"`
}

// HandleWebhook verifies the request signature and normalizes message events.
// Verification is skipped when no signing secret is configured or the
// signature headers are absent.
func (a *Adapter) HandleWebhook(ctx context.Context, req platform.WebhookRequest) (platform.WebhookResult, error) {
	if err := a.verifySignature(req); err != nil {
		return platform.WebhookResult{}, err
	}

	var env eventEnvelope
	if err := json.Unmarshal(req.Body, &env); err != nil {
		a.logger.Warn("undecodable event payload", slog.Any("error", err))
		return platform.WebhookResult{Ack: platform.IgnoredAck()}, nil
	}

	if env.Type == "url_verification" {
		return platform.WebhookResult{Ack: platform.ChallengeAck(env.Challenge)}, nil
	}
	if env.Event.Type != "message" {
		return platform.WebhookResult{Ack: platform.IgnoredAck()}, nil
	}
	if env.Event.BotID != "" {
		// Our own replies echo back as bot messages.
		return platform.WebhookResult{Ack: platform.IgnoredAck()}, nil
	}

	teamID := strings.TrimSpace(env.TeamID)
	userID := strings.TrimSpace(env.Event.User)
	channelID := strings.TrimSpace(env.Event.Channel)
	ts := strings.TrimSpace(env.Event.TS)
	if teamID == "" || userID == "" || channelID == "" || ts == "" {
		a.logger.Error("message event missing required fields",
			slog.String("team_id", teamID),
			slog.String("user", userID),
			slog.String("channel", channelID))
		return platform.WebhookResult{Ack: platform.EmptyAck()}, nil
	}

	event := &platform.InboundEvent{
		Platform:       Type,
		WorkspaceID:    teamID,
		PlatformUserID: userID,
		ChannelID:      channelID,
		MessageID:      ts,
		ChatType:       strings.TrimSpace(env.Event.ChannelType),
		Text:           emoji.ReplaceAliases(env.Event.Text),
	}
	return platform.WebhookResult{Ack: platform.EmptyAck(), Event: event}, nil
}

func (a *Adapter) verifySignature(req platform.WebhookRequest) error {
	secret := strings.TrimSpace(a.cfg.SigningSecret)
	signature := strings.TrimSpace(req.Headers.Get(headerSignature))
	timestamp := strings.TrimSpace(req.Headers.Get(headerTimestamp))
	if secret == "" || signature == "" || timestamp == "" {
		return nil
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signaturePrefix + ":" + timestamp + ":"))
	mac.Write(req.Body)
	expected := signaturePrefix + "=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("slack signature mismatch: %w", platform.ErrAuthFailed)
	}
	return nil
}

// Send posts reply text to a Slack channel.
func (a *Adapter) Send(ctx context.Context, msg platform.OutboundMessage) error {
	if a.api == nil {
		return fmt.Errorf("slack bot token is not configured")
	}
	target := strings.TrimSpace(msg.Target)
	if target == "" {
		return fmt.Errorf("slack channel is required")
	}

	_, _, err := a.api.PostMessageContext(ctx, target, slackapi.MsgOptionText(msg.Text, false))
	if err != nil {
		a.logger.Error("send failed", slog.String("channel", target), slog.Any("error", err))
		return fmt.Errorf("post slack message: %w", err)
	}
	a.logger.Info("send success", slog.String("channel", target))
	return nil
}
