package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/messages"
	"github.com/dojotek/chatbot/internal/platform"
	"github.com/dojotek/chatbot/internal/queue"
	"github.com/dojotek/chatbot/internal/sessions"
	"github.com/dojotek/chatbot/internal/staff"
)

// DeliveryMessageStore reloads replies and resolves fallback destinations.
type DeliveryMessageStore interface {
	Get(ctx context.Context, messageID string) (messages.ChatMessage, error)
	Preceding(ctx context.Context, sessionID string, before time.Time) (messages.ChatMessage, error)
}

// StaffService resolves delivery identities.
type StaffService interface {
	ActiveIdentityForStaff(ctx context.Context, staffID, platform string) (staff.Identity, error)
}

// Deliverer consumes send-message jobs and pushes replies back to the
// originating platform. Sends are throttled with a shared rate limiter.
type Deliverer struct {
	messages DeliveryMessageStore
	sessions SessionService
	staff    StaffService
	registry *platform.Registry
	limiter  *rate.Limiter
	logger   *slog.Logger
}

func NewDeliverer(
	log *slog.Logger,
	messageStore DeliveryMessageStore,
	sessionService SessionService,
	staffService StaffService,
	registry *platform.Registry,
	cfg config.OutboundConfig,
) *Deliverer {
	if log == nil {
		log = slog.Default()
	}
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}
	return &Deliverer{
		messages: messageStore,
		sessions: sessionService,
		staff:    staffService,
		registry: registry,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:   log.With(slog.String("worker", "deliver")),
	}
}

// Handle delivers one generated reply. Missing entities and unresolvable
// destinations are logged and acked; platform send failures return an
// error so the queue redelivers.
func (d *Deliverer) Handle(ctx context.Context, payload queue.SendMessagePayload) error {
	message, err := d.messages.Get(ctx, payload.ChatMessageID)
	if err != nil {
		if errors.Is(err, messages.ErrMessageNotFound) {
			d.logger.Warn("reply vanished before delivery",
				slog.String("chat_message_id", payload.ChatMessageID),
			)
			return nil
		}
		return fmt.Errorf("load reply: %w", err)
	}
	session, err := d.sessions.Get(ctx, message.ChatSessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			d.logger.Warn("session vanished before delivery",
				slog.String("chat_session_id", message.ChatSessionID),
			)
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}

	sender, ok := d.registry.GetSender(platform.Platform(session.Platform))
	if !ok {
		d.logger.Warn("no sender registered for platform",
			slog.String("platform", session.Platform),
		)
		return nil
	}

	target, err := d.resolveTarget(ctx, session, message)
	if err != nil {
		return err
	}
	if target == "" {
		d.logger.Warn("no delivery destination",
			slog.String("platform", session.Platform),
			slog.String("chat_message_id", message.ID),
		)
		return nil
	}

	text := platform.PlainText(message.Content)
	if text == "" {
		d.logger.Warn("empty reply skipped", slog.String("chat_message_id", message.ID))
		return nil
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	if err := sender.Send(ctx, platform.OutboundMessage{Target: target, Text: text}); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}

	d.logger.Info("reply delivered",
		slog.String("platform", session.Platform),
		slog.String("chat_message_id", message.ID),
	)
	return nil
}

// resolveTarget picks the platform-specific destination. Lark addresses
// the staff member directly by open id. Slack replies into the channel the
// message came from, falling back to the preceding message when the reply
// carries no channel of its own. Everything else answers into the session
// thread.
func (d *Deliverer) resolveTarget(ctx context.Context, session sessions.ChatSession, message messages.ChatMessage) (string, error) {
	switch platform.Platform(session.Platform) {
	case platform.Lark:
		identity, err := d.staff.ActiveIdentityForStaff(ctx, session.CustomerStaffID, session.Platform)
		if err != nil {
			if errors.Is(err, staff.ErrIdentityNotFound) {
				d.logger.Warn("staff has no active identity",
					slog.String("customer_staff_id", session.CustomerStaffID),
					slog.String("platform", session.Platform),
				)
				return "", nil
			}
			return "", fmt.Errorf("resolve identity: %w", err)
		}
		return identity.PlatformUserID, nil
	case platform.Slack:
		if target := message.MetaString(messages.MetaChannelID); target != "" {
			return target, nil
		}
		preceding, err := d.messages.Preceding(ctx, session.ID, message.CreatedAt)
		if err != nil {
			if errors.Is(err, messages.ErrMessageNotFound) {
				return "", nil
			}
			return "", fmt.Errorf("resolve preceding message: %w", err)
		}
		return preceding.MetaString(messages.MetaChannelID), nil
	default:
		return session.ThreadID, nil
	}
}
