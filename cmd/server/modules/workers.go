package modules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/dojotek/chatbot/internal/agents"
	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/generation"
	"github.com/dojotek/chatbot/internal/knowledge"
	"github.com/dojotek/chatbot/internal/messages"
	"github.com/dojotek/chatbot/internal/platform"
	"github.com/dojotek/chatbot/internal/queue"
	"github.com/dojotek/chatbot/internal/sessions"
	"github.com/dojotek/chatbot/internal/staff"
	"github.com/dojotek/chatbot/internal/workers"
)

var WorkersModule = fx.Module(
	"workers",
	fx.Provide(
		provideGenerationClient,
		provideExtractor,
		provideResponder,
		provideDeliverer,
		provideFileProcessor,
	),
	fx.Invoke(
		startConsumers,
		startSweeper,
	),
)

// ---------------------------------------------------------------------------
// worker providers
// ---------------------------------------------------------------------------

func provideGenerationClient(log *slog.Logger, cfg config.Config) (*generation.Client, error) {
	client, err := generation.NewClient(log, cfg.Generation)
	if err != nil {
		return nil, fmt.Errorf("generation client: %w", err)
	}
	return client, nil
}

func provideExtractor(log *slog.Logger, cfg config.Config) *knowledge.Extractor {
	return knowledge.NewExtractor(log, cfg.Knowledge)
}

func provideResponder(
	log *slog.Logger,
	agentService *agents.Service,
	sessionService *sessions.Service,
	messageService *messages.Service,
	knowledgeService *knowledge.Service,
	generator *generation.Client,
	jobs *queue.Client,
	cfg config.Config,
) *workers.Responder {
	return workers.NewResponder(log, agentService, sessionService, messageService, knowledgeService, generator, jobs, cfg.History)
}

func provideDeliverer(
	log *slog.Logger,
	messageService *messages.Service,
	sessionService *sessions.Service,
	staffService *staff.Service,
	registry *platform.Registry,
	cfg config.Config,
) *workers.Deliverer {
	return workers.NewDeliverer(log, messageService, sessionService, staffService, registry, cfg.Outbound)
}

func provideFileProcessor(log *slog.Logger, knowledgeService *knowledge.Service, extractor *knowledge.Extractor) *workers.FileProcessor {
	return workers.NewFileProcessor(log, knowledgeService, extractor)
}

// startConsumers runs the queue consumers for the lifetime of the app.
// The supervisor exits on context cancel during shutdown; any other exit
// is fatal and takes the whole process down.
func startConsumers(
	lc fx.Lifecycle,
	log *slog.Logger,
	client *queue.Client,
	responder *workers.Responder,
	deliverer *workers.Deliverer,
	files *workers.FileProcessor,
	shutdowner fx.Shutdowner,
) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			specs := workers.Specs(responder, deliverer, files)
			go func() {
				if err := client.RunWithConsumers(runCtx, specs...); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("queue consumers failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
}

func startSweeper(lc fx.Lifecycle, sweeper *sessions.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sweeper.Start()
		},
		OnStop: func(ctx context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
