// Package channels maps platform workspaces to the chat agent that
// answers for them.
package channels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/db"
	"github.com/dojotek/chatbot/internal/db/sqlc"
)

// Cache is the subset of the shared cache this service reads and writes.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Service struct {
	queries *sqlc.Queries
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
}

var ErrChannelNotFound = errors.New("chat channel not found")

func NewService(log *slog.Logger, queries *sqlc.Queries, cache Cache, cfg config.CacheConfig) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		cache:   cache,
		ttl:     config.TTLFor(cfg.ChatChannelsTTL, 5*time.Minute),
		logger:  log.With(slog.String("service", "channels")),
	}
}

func (s *Service) Create(ctx context.Context, req CreateChatChannelRequest) (ChatChannel, error) {
	if s.queries == nil {
		return ChatChannel{}, fmt.Errorf("chat channel queries not configured")
	}
	agentID, err := db.ParseUUID(req.ChatAgentID)
	if err != nil {
		return ChatChannel{}, err
	}
	platform := normalizePlatform(req.Platform)
	if platform == "" {
		return ChatChannel{}, fmt.Errorf("platform is required")
	}
	workspaceID := strings.TrimSpace(req.WorkspaceID)
	if workspaceID == "" {
		return ChatChannel{}, fmt.Errorf("workspace id is required")
	}
	cfgValue := req.Config
	if cfgValue == nil {
		cfgValue = map[string]any{}
	}
	payload, err := json.Marshal(cfgValue)
	if err != nil {
		return ChatChannel{}, err
	}
	row, err := s.queries.CreateChatChannel(ctx, sqlc.CreateChatChannelParams{
		ChatAgentID: agentID,
		Platform:    platform,
		WorkspaceID: workspaceID,
		Config:      payload,
	})
	if err != nil {
		return ChatChannel{}, err
	}
	s.invalidate(ctx, platform, workspaceID)
	return toChatChannel(row)
}

func (s *Service) Get(ctx context.Context, channelID string) (ChatChannel, error) {
	if s.queries == nil {
		return ChatChannel{}, fmt.Errorf("chat channel queries not configured")
	}
	pgID, err := db.ParseUUID(channelID)
	if err != nil {
		return ChatChannel{}, err
	}
	row, err := s.queries.GetChatChannelByID(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ChatChannel{}, ErrChannelNotFound
		}
		return ChatChannel{}, err
	}
	return toChatChannel(row)
}

// Resolve finds the active channel registered for a platform workspace.
// This is the first lookup on every inbound webhook, so hits are served
// from cache. When several active channels share a workspace the oldest
// one wins.
func (s *Service) Resolve(ctx context.Context, platform, workspaceID string) (ChatChannel, error) {
	if s.queries == nil {
		return ChatChannel{}, fmt.Errorf("chat channel queries not configured")
	}
	platform = normalizePlatform(platform)
	workspaceID = strings.TrimSpace(workspaceID)
	if platform == "" || workspaceID == "" {
		return ChatChannel{}, ErrChannelNotFound
	}
	key := channelKey(platform, workspaceID)
	if s.cache != nil {
		var cached ChatChannel
		ok, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("chat channel cache read failed", slog.Any("error", err))
		} else if ok {
			return cached, nil
		}
	}
	row, err := s.queries.GetActiveChannelByWorkspace(ctx, sqlc.GetActiveChannelByWorkspaceParams{
		Platform:    platform,
		WorkspaceID: workspaceID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ChatChannel{}, ErrChannelNotFound
		}
		return ChatChannel{}, err
	}
	channel, err := toChatChannel(row)
	if err != nil {
		return ChatChannel{}, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, channel, s.ttl); err != nil {
			s.logger.Warn("chat channel cache write failed", slog.Any("error", err))
		}
	}
	return channel, nil
}

func (s *Service) List(ctx context.Context, limit, offset int32) ([]ChatChannel, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("chat channel queries not configured")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.queries.ListChatChannels(ctx, sqlc.ListChatChannelsParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return toChatChannels(rows)
}

func (s *Service) ListByAgent(ctx context.Context, chatAgentID string) ([]ChatChannel, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("chat channel queries not configured")
	}
	pgID, err := db.ParseUUID(chatAgentID)
	if err != nil {
		return nil, err
	}
	rows, err := s.queries.ListChatChannelsByAgent(ctx, pgID)
	if err != nil {
		return nil, err
	}
	return toChatChannels(rows)
}

func (s *Service) invalidate(ctx context.Context, platform, workspaceID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, channelKey(platform, workspaceID)); err != nil {
		s.logger.Warn("chat channel cache invalidate failed", slog.Any("error", err))
	}
}

func channelKey(platform, workspaceID string) string {
	return "chat_channels:" + platform + ":" + workspaceID
}

func normalizePlatform(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func toChatChannel(row sqlc.ChatChannel) (ChatChannel, error) {
	var cfg map[string]any
	if len(row.Config) > 0 {
		if err := json.Unmarshal(row.Config, &cfg); err != nil {
			return ChatChannel{}, err
		}
	}
	if cfg == nil {
		cfg = map[string]any{}
	}
	return ChatChannel{
		ID:          db.UUIDString(row.ID),
		ChatAgentID: db.UUIDString(row.ChatAgentID),
		Platform:    row.Platform,
		WorkspaceID: row.WorkspaceID,
		Config:      cfg,
		IsActive:    row.IsActive,
		CreatedAt:   db.TimeFromPg(row.CreatedAt),
		UpdatedAt:   db.TimeFromPg(row.UpdatedAt),
	}, nil
}

func toChatChannels(rows []sqlc.ChatChannel) ([]ChatChannel, error) {
	items := make([]ChatChannel, 0, len(rows))
	for _, row := range rows {
		channel, err := toChatChannel(row)
		if err != nil {
			return nil, err
		}
		items = append(items, channel)
	}
	return items, nil
}
