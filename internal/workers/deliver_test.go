package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/messages"
	"github.com/dojotek/chatbot/internal/platform"
	"github.com/dojotek/chatbot/internal/queue"
	"github.com/dojotek/chatbot/internal/sessions"
	"github.com/dojotek/chatbot/internal/staff"
)

type fakeDeliveryMessages struct {
	message messages.ChatMessage
	getErr  error

	preceding    messages.ChatMessage
	precedingErr error

	gotPrecedingSession string
	gotPrecedingBefore  time.Time
	precedingCalls      int
}

func (f *fakeDeliveryMessages) Get(ctx context.Context, messageID string) (messages.ChatMessage, error) {
	return f.message, f.getErr
}

func (f *fakeDeliveryMessages) Preceding(ctx context.Context, sessionID string, before time.Time) (messages.ChatMessage, error) {
	f.precedingCalls++
	f.gotPrecedingSession = sessionID
	f.gotPrecedingBefore = before
	return f.preceding, f.precedingErr
}

type fakeStaffIdentities struct {
	identity staff.Identity
	err      error

	gotStaffID   string
	gotPlatform  string
	resolveCalls int
}

func (f *fakeStaffIdentities) ActiveIdentityForStaff(ctx context.Context, staffID, platformName string) (staff.Identity, error) {
	f.resolveCalls++
	f.gotStaffID = staffID
	f.gotPlatform = platformName
	return f.identity, f.err
}

type fakeSenderAdapter struct {
	name   platform.Platform
	err    error
	gotMsg platform.OutboundMessage
	calls  int
}

func (f *fakeSenderAdapter) Platform() platform.Platform { return f.name }

func (f *fakeSenderAdapter) HandleWebhook(ctx context.Context, req platform.WebhookRequest) (platform.WebhookResult, error) {
	return platform.WebhookResult{Ack: platform.EmptyAck()}, nil
}

func (f *fakeSenderAdapter) Send(ctx context.Context, msg platform.OutboundMessage) error {
	f.calls++
	f.gotMsg = msg
	return f.err
}

type receiveOnlyAdapter struct {
	name platform.Platform
}

func (f *receiveOnlyAdapter) Platform() platform.Platform { return f.name }

func (f *receiveOnlyAdapter) HandleWebhook(ctx context.Context, req platform.WebhookRequest) (platform.WebhookResult, error) {
	return platform.WebhookResult{Ack: platform.EmptyAck()}, nil
}

type delivererFixture struct {
	messages *fakeDeliveryMessages
	sessions *fakeSessions
	staff    *fakeStaffIdentities
	sender   *fakeSenderAdapter
	registry *platform.Registry
}

func newDelivererFixture(platformName platform.Platform) *delivererFixture {
	fx := &delivererFixture{
		messages: &fakeDeliveryMessages{
			message: messages.ChatMessage{
				ID:            "reply-1",
				ChatSessionID: "session-1",
				MessageType:   messages.TypeAI,
				Content:       "**All good.**",
				CreatedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			},
		},
		sessions: &fakeSessions{session: sessions.ChatSession{
			ID:              "session-1",
			ChatAgentID:     "agent-1",
			CustomerID:      "customer-1",
			CustomerStaffID: "staff-1",
			Platform:        platformName.String(),
			ThreadID:        "thread-1",
			Status:          sessions.StatusActive,
		}},
		staff: &fakeStaffIdentities{identity: staff.Identity{
			ID:              "identity-1",
			CustomerStaffID: "staff-1",
			Platform:        platformName.String(),
			PlatformUserID:  "ou_abc123",
			IsActive:        true,
		}},
		sender:   &fakeSenderAdapter{name: platformName},
		registry: platform.NewRegistry(),
	}
	fx.registry.MustRegister(fx.sender)
	return fx
}

func (fx *delivererFixture) deliverer() *Deliverer {
	return NewDeliverer(nil, fx.messages, fx.sessions, fx.staff, fx.registry, config.OutboundConfig{RatePerSecond: 1000, Burst: 1000})
}

func sendPayload() queue.SendMessagePayload {
	return queue.SendMessagePayload{ChatMessageID: "reply-1"}
}

func TestDeliverLarkTargetsStaffIdentity(t *testing.T) {
	fx := newDelivererFixture(platform.Lark)
	d := fx.deliverer()

	if err := d.Handle(context.Background(), sendPayload()); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if fx.staff.gotStaffID != "staff-1" || fx.staff.gotPlatform != "lark" {
		t.Errorf("identity lookup = (%q, %q)", fx.staff.gotStaffID, fx.staff.gotPlatform)
	}
	if fx.sender.gotMsg.Target != "ou_abc123" {
		t.Errorf("target = %q, want ou_abc123", fx.sender.gotMsg.Target)
	}
	if fx.sender.gotMsg.Text != "All good." {
		t.Errorf("text = %q, want markdown stripped", fx.sender.gotMsg.Text)
	}
}

func TestDeliverSlackUsesReplyChannel(t *testing.T) {
	fx := newDelivererFixture(platform.Slack)
	fx.messages.message.Metadata = map[string]any{"channelId": "C456"}
	d := fx.deliverer()

	if err := d.Handle(context.Background(), sendPayload()); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if fx.sender.gotMsg.Target != "C456" {
		t.Errorf("target = %q, want C456", fx.sender.gotMsg.Target)
	}
	if fx.messages.precedingCalls != 0 {
		t.Error("preceding lookup used despite channel on reply")
	}
}

func TestDeliverSlackFallsBackToPrecedingMessage(t *testing.T) {
	fx := newDelivererFixture(platform.Slack)
	fx.messages.preceding = messages.ChatMessage{
		ID:          "message-1",
		MessageType: messages.TypeUser,
		Metadata:    map[string]any{"channelId": "C789"},
	}
	d := fx.deliverer()

	if err := d.Handle(context.Background(), sendPayload()); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if fx.messages.gotPrecedingSession != "session-1" {
		t.Errorf("preceding session = %q", fx.messages.gotPrecedingSession)
	}
	if !fx.messages.gotPrecedingBefore.Equal(fx.messages.message.CreatedAt) {
		t.Errorf("preceding before = %v", fx.messages.gotPrecedingBefore)
	}
	if fx.sender.gotMsg.Target != "C789" {
		t.Errorf("target = %q, want C789", fx.sender.gotMsg.Target)
	}
}

func TestDeliverSlackNoDestinationAcked(t *testing.T) {
	fx := newDelivererFixture(platform.Slack)
	fx.messages.precedingErr = messages.ErrMessageNotFound
	d := fx.deliverer()

	if err := d.Handle(context.Background(), sendPayload()); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}
	if fx.sender.calls != 0 {
		t.Error("send attempted with no destination")
	}
}

func TestDeliverSampleTargetsThread(t *testing.T) {
	fx := newDelivererFixture(platform.Sample)
	d := fx.deliverer()

	if err := d.Handle(context.Background(), sendPayload()); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if fx.sender.gotMsg.Target != "thread-1" {
		t.Errorf("target = %q, want thread-1", fx.sender.gotMsg.Target)
	}
}

func TestDeliverMessageMissingAcked(t *testing.T) {
	fx := newDelivererFixture(platform.Lark)
	fx.messages.getErr = messages.ErrMessageNotFound
	d := fx.deliverer()

	if err := d.Handle(context.Background(), sendPayload()); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}
	if fx.sender.calls != 0 {
		t.Error("send attempted for missing message")
	}
}

func TestDeliverIdentityMissingAcked(t *testing.T) {
	fx := newDelivererFixture(platform.Lark)
	fx.staff.err = staff.ErrIdentityNotFound
	d := fx.deliverer()

	if err := d.Handle(context.Background(), sendPayload()); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}
	if fx.sender.calls != 0 {
		t.Error("send attempted without identity")
	}
}

func TestDeliverNoSenderAcked(t *testing.T) {
	fx := newDelivererFixture(platform.Lark)
	fx.registry = platform.NewRegistry()
	fx.registry.MustRegister(&receiveOnlyAdapter{name: platform.Lark})
	d := fx.deliverer()

	if err := d.Handle(context.Background(), sendPayload()); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}
	if fx.staff.resolveCalls != 0 {
		t.Error("identity resolved despite missing sender")
	}
}

func TestDeliverSendErrorRetried(t *testing.T) {
	fx := newDelivererFixture(platform.Lark)
	fx.sender.err = errors.New("rate limited upstream")
	d := fx.deliverer()

	if err := d.Handle(context.Background(), sendPayload()); err == nil {
		t.Fatal("Handle() = nil, want error")
	}
}

func TestDeliverEmptyTextAcked(t *testing.T) {
	fx := newDelivererFixture(platform.Lark)
	fx.messages.message.Content = "   "
	d := fx.deliverer()

	if err := d.Handle(context.Background(), sendPayload()); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}
	if fx.sender.calls != 0 {
		t.Error("send attempted for empty text")
	}
}
