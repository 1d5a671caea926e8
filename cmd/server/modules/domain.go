package modules

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/dojotek/chatbot/internal/agents"
	"github.com/dojotek/chatbot/internal/cache"
	"github.com/dojotek/chatbot/internal/channels"
	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/customers"
	"github.com/dojotek/chatbot/internal/db/sqlc"
	"github.com/dojotek/chatbot/internal/knowledge"
	"github.com/dojotek/chatbot/internal/messages"
	"github.com/dojotek/chatbot/internal/queue"
	"github.com/dojotek/chatbot/internal/sessions"
	"github.com/dojotek/chatbot/internal/staff"
	"github.com/dojotek/chatbot/internal/users"
)

var DomainModule = fx.Module(
	"domain",
	fx.Provide(
		users.NewService,

		provideCustomersService,
		provideAgentsService,
		provideChannelsService,
		provideStaffService,
		provideSessionsService,
		provideMessagesService,
		provideKnowledgeService,
		provideSweeper,
	),
)

// ---------------------------------------------------------------------------
// domain service providers (config extraction, interface adaptation)
// ---------------------------------------------------------------------------

func provideCustomersService(log *slog.Logger, queries *sqlc.Queries, c *cache.Cache, cfg config.Config) *customers.Service {
	return customers.NewService(log, queries, c, cfg.Cache)
}

func provideAgentsService(log *slog.Logger, queries *sqlc.Queries, c *cache.Cache, cfg config.Config) *agents.Service {
	return agents.NewService(log, queries, c, cfg.Cache)
}

func provideChannelsService(log *slog.Logger, queries *sqlc.Queries, c *cache.Cache, cfg config.Config) *channels.Service {
	return channels.NewService(log, queries, c, cfg.Cache)
}

func provideStaffService(log *slog.Logger, queries *sqlc.Queries, c *cache.Cache, cfg config.Config) *staff.Service {
	return staff.NewService(log, queries, c, cfg.Cache)
}

func provideSessionsService(log *slog.Logger, queries *sqlc.Queries, c *cache.Cache, cfg config.Config) *sessions.Service {
	return sessions.NewService(log, queries, c, cfg.Sessions)
}

func provideMessagesService(log *slog.Logger, queries *sqlc.Queries, c *cache.Cache, cfg config.Config) *messages.Service {
	return messages.NewService(log, queries, c, cfg.Cache)
}

func provideKnowledgeService(log *slog.Logger, queries *sqlc.Queries, jobs *queue.Client) *knowledge.Service {
	return knowledge.NewService(log, queries, jobs)
}

func provideSweeper(log *slog.Logger, service *sessions.Service, cfg config.Config) *sessions.Sweeper {
	return sessions.NewSweeper(log, service, cfg.Sessions.SweepCron)
}
