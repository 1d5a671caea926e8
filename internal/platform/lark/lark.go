// Package lark implements the Lark (Feishu) webhook adapter and message
// sender.
package lark

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	larksdk "github.com/larksuite/oapi-sdk-go/v3"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"

	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/platform"
)

// Type is the registered platform identifier for Lark.
const Type = platform.Lark

const (
	headerTimestamp = "X-Lark-Request-Timestamp"
	headerNonce     = "X-Lark-Request-Nonce"
	headerSignature = "X-Lark-Signature"

	eventTypeMessageReceive = "im.message.receive_v1"
)

// Adapter verifies Lark event deliveries, decrypting when configured, and
// sends replies addressed by open id.
type Adapter struct {
	cfg    config.LarkConfig
	api    *larksdk.Client
	logger *slog.Logger
}

// New creates a Lark adapter. The sender is available only when app
// credentials are configured.
func New(cfg config.LarkConfig, log *slog.Logger) *Adapter {
	a := &Adapter{
		cfg:    cfg,
		logger: log.With(slog.String("adapter", "lark")),
	}
	if strings.TrimSpace(cfg.AppID) != "" && strings.TrimSpace(cfg.AppSecret) != "" {
		a.api = larksdk.NewClient(cfg.AppID, cfg.AppSecret)
	}
	return a
}

func (a *Adapter) Platform() platform.Platform {
	return Type
}

// eventEnvelope is the subset of the Lark event schema the pipeline reads,
// covering both url_verification and schema 2.0 message events.
type eventEnvelope struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Token     string `json:"token"`
	Header    struct {
		EventID   string `json:"event_id"`
		EventType string `json:"event_type"`
		TenantKey string `json:"tenant_key"`
	} `json:"header"`
	Event struct {
		Sender struct {
			SenderID struct {
				OpenID string `json:"open_id"`
			} `json:"sender_id"`
		} `json:"sender"`
		Message struct {
			MessageID   string `json:"message_id"`
			ChatID      string `json:"chat_id"`
			ChatType    string `json:"chat_type"`
			MessageType string `json:"message_type"`
			Content     string `json:"content"`
		} `json:"message"`
	} `json:"event"`
}

// HandleWebhook authenticates one event delivery and normalizes message
// events. Encrypted bodies are decrypted with the configured encrypt key;
// the header signature is verified when its inputs are present.
func (a *Adapter) HandleWebhook(ctx context.Context, req platform.WebhookRequest) (platform.WebhookResult, error) {
	if err := a.verifySignature(req); err != nil {
		return platform.WebhookResult{}, err
	}

	body := req.Body
	var wrapper struct {
		Encrypt string `json:"encrypt"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Encrypt != "" {
		key := strings.TrimSpace(a.cfg.EncryptKey)
		if key == "" {
			a.logger.Error("received encrypted event without an encrypt key")
			return platform.WebhookResult{}, fmt.Errorf("encrypt key is not configured: %w", platform.ErrAuthFailed)
		}
		plain, err := decryptEvent(wrapper.Encrypt, key)
		if err != nil {
			a.logger.Error("decrypt event failed", slog.Any("error", err))
			return platform.WebhookResult{}, fmt.Errorf("decrypt event: %w", platform.ErrAuthFailed)
		}
		body = plain
	}

	var env eventEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		a.logger.Warn("undecodable event payload", slog.Any("error", err))
		return platform.WebhookResult{Ack: platform.IgnoredAck()}, nil
	}

	if env.Type == "url_verification" {
		token := strings.TrimSpace(a.cfg.VerificationToken)
		if token == "" || subtle.ConstantTimeCompare([]byte(env.Token), []byte(token)) != 1 {
			return platform.WebhookResult{}, fmt.Errorf("verification token mismatch: %w", platform.ErrAuthFailed)
		}
		return platform.WebhookResult{Ack: platform.ChallengeAck(env.Challenge)}, nil
	}

	if env.Header.EventType != eventTypeMessageReceive {
		return platform.WebhookResult{Ack: platform.IgnoredAck()}, nil
	}

	tenantKey := strings.TrimSpace(env.Header.TenantKey)
	openID := strings.TrimSpace(env.Event.Sender.SenderID.OpenID)
	message := env.Event.Message
	if tenantKey == "" || openID == "" ||
		message.MessageID == "" || message.ChatID == "" ||
		message.ChatType == "" || message.MessageType == "" || message.Content == "" {
		a.logger.Error("message event missing required fields",
			slog.String("tenant_key", tenantKey),
			slog.String("open_id", openID),
			slog.String("message_id", message.MessageID))
		return platform.WebhookResult{Ack: platform.EmptyAck()}, nil
	}

	if message.MessageType != larkim.MsgTypeText {
		return platform.WebhookResult{Ack: platform.IgnoredAck()}, nil
	}

	var content struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(message.Content), &content); err != nil {
		a.logger.Error("undecodable message content", slog.String("message_id", message.MessageID), slog.Any("error", err))
		return platform.WebhookResult{Ack: platform.EmptyAck()}, nil
	}
	text := strings.TrimSpace(content.Text)
	if text == "" {
		return platform.WebhookResult{Ack: platform.IgnoredAck()}, nil
	}

	event := &platform.InboundEvent{
		Platform:       Type,
		WorkspaceID:    tenantKey,
		PlatformUserID: openID,
		ChannelID:      message.ChatID,
		MessageID:      message.MessageID,
		ChatType:       message.ChatType,
		Text:           text,
	}
	return platform.WebhookResult{Ack: platform.EmptyAck(), Event: event}, nil
}

func (a *Adapter) verifySignature(req platform.WebhookRequest) error {
	key := strings.TrimSpace(a.cfg.EncryptKey)
	timestamp := strings.TrimSpace(req.Headers.Get(headerTimestamp))
	nonce := strings.TrimSpace(req.Headers.Get(headerNonce))
	signature := strings.TrimSpace(req.Headers.Get(headerSignature))
	if key == "" || timestamp == "" || nonce == "" || signature == "" {
		return nil
	}

	expected := calcSignature(timestamp, nonce, key, req.Body)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return fmt.Errorf("lark signature mismatch: %w", platform.ErrAuthFailed)
	}
	return nil
}

// Send delivers reply text to a Lark user by open id.
func (a *Adapter) Send(ctx context.Context, msg platform.OutboundMessage) error {
	if a.api == nil {
		return fmt.Errorf("lark app credentials are not configured")
	}
	target := strings.TrimSpace(msg.Target)
	if target == "" {
		return fmt.Errorf("lark receive id is required")
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return fmt.Errorf("message is required")
	}

	content, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType(larkim.ReceiveIdTypeOpenId).
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(target).
			MsgType(larkim.MsgTypeText).
			Content(string(content)).
			Uuid(uuid.NewString()).
			Build()).
		Build()

	resp, err := a.api.Im.V1.Message.Create(ctx, req)
	if err != nil {
		a.logger.Error("send failed", slog.String("receive_id", target), slog.Any("error", err))
		return err
	}
	if resp == nil || !resp.Success() {
		code := 0
		msg := ""
		if resp != nil {
			code = resp.Code
			msg = resp.Msg
		}
		a.logger.Error("send failed", slog.String("receive_id", target), slog.Int("code", code), slog.String("msg", msg))
		return fmt.Errorf("lark send failed: %s (code: %d)", msg, code)
	}
	a.logger.Info("send success", slog.String("receive_id", target))
	return nil
}
