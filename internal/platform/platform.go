// Package platform defines the contracts between webhook ingestion and the
// chat platforms, plus the registry that dispatches on platform name.
package platform

import (
	"context"
	"errors"
	"net/http"
)

// ErrAuthFailed marks a webhook delivery that failed signature, token, or
// decryption checks. It is the only error class that surfaces to the platform
// as a non-2xx response.
var ErrAuthFailed = errors.New("webhook authentication failed")

// Platform identifies one chat platform.
type Platform string

// Registered platform identifiers.
const (
	Slack  Platform = "slack"
	Lark   Platform = "lark"
	Sample Platform = "sample"
)

func (p Platform) String() string {
	return string(p)
}

// WebhookRequest is one raw webhook delivery.
type WebhookRequest struct {
	Version string
	Headers http.Header
	Body    []byte
}

// Ack is the JSON body acknowledged back to the platform.
type Ack map[string]any

// EmptyAck acknowledges a delivery with no payload.
func EmptyAck() Ack {
	return Ack{}
}

// IgnoredAck acknowledges a delivery the system deliberately skips.
func IgnoredAck() Ack {
	return Ack{"status": "ignored"}
}

// ChallengeAck echoes a URL verification challenge.
func ChallengeAck(challenge string) Ack {
	return Ack{"challenge": challenge}
}

// InboundEvent is a normalized platform message event.
type InboundEvent struct {
	Platform       Platform
	WorkspaceID    string
	PlatformUserID string
	ChannelID      string
	MessageID      string
	ChatType       string
	Text           string
}

// WebhookResult carries the ack to return plus the normalized event, when the
// delivery produced one.
type WebhookResult struct {
	Ack   Ack
	Event *InboundEvent
}

// Adapter verifies and normalizes webhook deliveries for one platform.
type Adapter interface {
	Platform() Platform
	HandleWebhook(ctx context.Context, req WebhookRequest) (WebhookResult, error)
}

// OutboundMessage addresses reply text to a platform-specific destination:
// an open id on Lark, a channel id on Slack.
type OutboundMessage struct {
	Target string
	Text   string
}

// Sender delivers an outbound message. Adapters that support replies
// implement it alongside Adapter.
type Sender interface {
	Send(ctx context.Context, msg OutboundMessage) error
}
