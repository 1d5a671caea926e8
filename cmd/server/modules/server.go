package modules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.uber.org/fx"

	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/handlers"
	"github.com/dojotek/chatbot/internal/inbound"
	"github.com/dojotek/chatbot/internal/platform"
	"github.com/dojotek/chatbot/internal/server"
	"github.com/dojotek/chatbot/internal/users"
	"github.com/dojotek/chatbot/internal/version"
)

var ServerModule = fx.Module(
	"server",
	fx.Provide(
		annotateHandler(handlers.NewPingHandler),
		annotateHandler(handlers.NewSwaggerHandler),
		annotateHandler(provideAuthHandler),
		annotateHandler(provideWebhookHandler),
		annotateHandler(handlers.NewCustomersHandler),
		annotateHandler(handlers.NewAgentsHandler),
		annotateHandler(handlers.NewChannelsHandler),
		annotateHandler(handlers.NewStaffHandler),
		annotateHandler(handlers.NewSessionsHandler),
		annotateHandler(handlers.NewKnowledgeHandler),
		annotateHandler(handlers.NewUsersHandler),

		provideServer,
	),
	fx.Invoke(startServer),
)

// annotateHandler registers a handler provider under the server_handlers
// group so provideServer collects it.
func annotateHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

// ---------------------------------------------------------------------------
// server
// ---------------------------------------------------------------------------

func provideAuthHandler(log *slog.Logger, userService *users.Service, cfg config.Config) *handlers.AuthHandler {
	return handlers.NewAuthHandler(log, userService, cfg.Auth.JWTSecret, cfg.Auth.ExpiresIn())
}

func provideWebhookHandler(log *slog.Logger, registry *platform.Registry, dispatcher *inbound.Dispatcher) *handlers.WebhookHandler {
	return handlers.NewWebhookHandler(log, registry, dispatcher)
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.Config.Server.Addr, params.Config.Auth.JWTSecret, params.ServerHandlers...)
}

func startServer(
	lc fx.Lifecycle,
	logger *slog.Logger,
	srv *server.Server,
	shutdowner fx.Shutdowner,
	cfg config.Config,
	userService *users.Service,
) {
	fmt.Printf("Starting Chatbot %s\n", version.GetInfo())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := ensureAdminUser(ctx, logger, userService, cfg); err != nil {
				return err
			}

			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}

// ensureAdminUser creates the configured admin account when the users table
// is empty, so a fresh deployment can sign in.
func ensureAdminUser(ctx context.Context, log *slog.Logger, userService *users.Service, cfg config.Config) error {
	count, err := userService.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	email := strings.TrimSpace(cfg.Admin.Email)
	password := strings.TrimSpace(cfg.Admin.Password)
	if email == "" || password == "" {
		return fmt.Errorf("admin email/password required in config.toml")
	}
	if password == "change-your-password-here" {
		log.Warn("admin password uses default placeholder; please update config.toml")
	}

	admin, err := userService.Create(ctx, users.CreateUserRequest{
		Email:    email,
		Password: password,
		Name:     strings.TrimSpace(cfg.Admin.Name),
	})
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Info("admin user created", slog.String("email", admin.Email))
	return nil
}
