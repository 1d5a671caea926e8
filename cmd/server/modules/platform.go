package modules

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/dojotek/chatbot/internal/agents"
	"github.com/dojotek/chatbot/internal/cache"
	"github.com/dojotek/chatbot/internal/channels"
	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/inbound"
	"github.com/dojotek/chatbot/internal/messages"
	"github.com/dojotek/chatbot/internal/platform"
	"github.com/dojotek/chatbot/internal/platform/lark"
	"github.com/dojotek/chatbot/internal/platform/sample"
	"github.com/dojotek/chatbot/internal/platform/slack"
	"github.com/dojotek/chatbot/internal/queue"
	"github.com/dojotek/chatbot/internal/sessions"
	"github.com/dojotek/chatbot/internal/staff"
)

var PlatformModule = fx.Module(
	"platform",
	fx.Provide(
		provideRegistry,
		provideDispatcher,
	),
)

// ---------------------------------------------------------------------------
// platform providers
// ---------------------------------------------------------------------------

func provideRegistry(log *slog.Logger, cfg config.Config) *platform.Registry {
	registry := platform.NewRegistry()
	registry.MustRegister(slack.New(cfg.Platforms.Slack, log))
	registry.MustRegister(lark.New(cfg.Platforms.Lark, log))
	registry.MustRegister(sample.New(cfg.Platforms.Sample, log))
	return registry
}

func provideDispatcher(
	log *slog.Logger,
	channelService *channels.Service,
	agentService *agents.Service,
	staffService *staff.Service,
	sessionService *sessions.Service,
	messageService *messages.Service,
	c *cache.Cache,
	jobs *queue.Client,
	cfg config.Config,
) *inbound.Dispatcher {
	return inbound.NewDispatcher(log, channelService, agentService, staffService, sessionService, messageService, c, jobs, cfg.Dedup)
}
