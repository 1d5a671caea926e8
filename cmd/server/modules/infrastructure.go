// Package modules wires the application together with fx.
package modules

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"github.com/dojotek/chatbot/internal/cache"
	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/db"
	"github.com/dojotek/chatbot/internal/db/sqlc"
	"github.com/dojotek/chatbot/internal/logger"
	"github.com/dojotek/chatbot/internal/queue"
)

var InfraModule = fx.Module(
	"infra",
	fx.Provide(
		provideConfig,
		provideLogger,
		provideDBConn,
		provideDBQueries,
		provideCache,
		provideQueueClient,
	),
)

// ---------------------------------------------------------------------------
// infrastructure providers
// ---------------------------------------------------------------------------

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	conn, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			conn.Close()
			return nil
		},
	})
	return conn, nil
}

func provideDBQueries(conn *pgxpool.Pool) *sqlc.Queries {
	return sqlc.New(conn)
}

func provideCache(lc fx.Lifecycle, cfg config.Config) *cache.Cache {
	rdb := cache.NewClient(cfg.Redis)
	c := cache.New(rdb, cfg.Redis)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := c.Ping(ctx); err != nil {
				return fmt.Errorf("redis connect: %w", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})
	return c
}

func provideQueueClient(lc fx.Lifecycle, cfg config.Config, log *slog.Logger) (*queue.Client, error) {
	client, err := queue.NewClient(cfg.RabbitMQ, log)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq connect: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			client.Close()
			return nil
		},
	})
	return client, nil
}
