// Package agents manages chat agent definitions: the prompt, config, and
// activation state behind every conversation.
package agents

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

var ErrChatAgentNotFound = errors.New("chat agent not found")

func NewService(log *slog.Logger, queries *sqlc.Queries, cache Cache, cfg config.CacheConfig) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		cache:   cache,
		ttl:     config.TTLFor(cfg.ChatAgentsTTL, 5*time.Minute),
		logger:  log.With(slog.String("service", "agents")),
	}
}

func (s *Service) Create(ctx context.Context, req CreateChatAgentRequest) (ChatAgent, error) {
	if s.queries == nil {
		return ChatAgent{}, fmt.Errorf("chat agent queries not configured")
	}
	customerID, err := db.ParseUUID(req.CustomerID)
	if err != nil {
		return ChatAgent{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ChatAgent{}, fmt.Errorf("name is required")
	}
	payload, err := encodeConfig(req.Config)
	if err != nil {
		return ChatAgent{}, err
	}
	row, err := s.queries.CreateChatAgent(ctx, sqlc.CreateChatAgentParams{
		CustomerID:   customerID,
		Name:         name,
		Description:  strings.TrimSpace(req.Description),
		SystemPrompt: req.SystemPrompt,
		Config:       payload,
	})
	if err != nil {
		return ChatAgent{}, err
	}
	return toChatAgent(row)
}

func (s *Service) Get(ctx context.Context, chatAgentID string) (ChatAgent, error) {
	if s.queries == nil {
		return ChatAgent{}, fmt.Errorf("chat agent queries not configured")
	}
	pgID, err := db.ParseUUID(chatAgentID)
	if err != nil {
		return ChatAgent{}, err
	}
	key := agentKey(db.UUIDString(pgID))
	if s.cache != nil {
		var cached ChatAgent
		ok, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("chat agent cache read failed", slog.Any("error", err))
		} else if ok {
			return cached, nil
		}
	}
	row, err := s.queries.GetChatAgentByID(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ChatAgent{}, ErrChatAgentNotFound
		}
		return ChatAgent{}, err
	}
	agent, err := toChatAgent(row)
	if err != nil {
		return ChatAgent{}, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, agent, s.ttl); err != nil {
			s.logger.Warn("chat agent cache write failed", slog.Any("error", err))
		}
	}
	return agent, nil
}

func (s *Service) List(ctx context.Context, limit, offset int32) ([]ChatAgent, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("chat agent queries not configured")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.queries.ListChatAgents(ctx, sqlc.ListChatAgentsParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return toChatAgents(rows)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]ChatAgent, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("chat agent queries not configured")
	}
	pgID, err := db.ParseUUID(customerID)
	if err != nil {
		return nil, err
	}
	rows, err := s.queries.ListChatAgentsByCustomer(ctx, pgID)
	if err != nil {
		return nil, err
	}
	return toChatAgents(rows)
}

func (s *Service) Update(ctx context.Context, chatAgentID string, req UpdateChatAgentRequest) (ChatAgent, error) {
	if s.queries == nil {
		return ChatAgent{}, fmt.Errorf("chat agent queries not configured")
	}
	pgID, err := db.ParseUUID(chatAgentID)
	if err != nil {
		return ChatAgent{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ChatAgent{}, fmt.Errorf("name is required")
	}
	payload, err := encodeConfig(req.Config)
	if err != nil {
		return ChatAgent{}, err
	}
	row, err := s.queries.UpdateChatAgent(ctx, sqlc.UpdateChatAgentParams{
		ID:           pgID,
		Name:         name,
		Description:  strings.TrimSpace(req.Description),
		SystemPrompt: req.SystemPrompt,
		Config:       payload,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ChatAgent{}, ErrChatAgentNotFound
		}
		return ChatAgent{}, err
	}
	s.invalidate(ctx, db.UUIDString(pgID))
	return toChatAgent(row)
}

func (s *Service) SetActive(ctx context.Context, chatAgentID string, active bool) (ChatAgent, error) {
	if s.queries == nil {
		return ChatAgent{}, fmt.Errorf("chat agent queries not configured")
	}
	pgID, err := db.ParseUUID(chatAgentID)
	if err != nil {
		return ChatAgent{}, err
	}
	row, err := s.queries.SetChatAgentActive(ctx, sqlc.SetChatAgentActiveParams{ID: pgID, IsActive: active})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ChatAgent{}, ErrChatAgentNotFound
		}
		return ChatAgent{}, err
	}
	s.invalidate(ctx, db.UUIDString(pgID))
	return toChatAgent(row)
}

func (s *Service) invalidate(ctx context.Context, chatAgentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, agentKey(chatAgentID)); err != nil {
		s.logger.Warn("chat agent cache invalidate failed", slog.Any("error", err))
	}
}

func agentKey(chatAgentID string) string {
	return "chat_agents:" + chatAgentID
}

func encodeConfig(cfg map[string]any) ([]byte, error) {
	if cfg == nil {
		cfg = map[string]any{}
	}
	return json.Marshal(cfg)
}

func decodeConfig(payload []byte) (map[string]any, error) {
	if len(payload) == 0 {
		return map[string]any{}, nil
	}
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

func toChatAgent(row sqlc.ChatAgent) (ChatAgent, error) {
	cfg, err := decodeConfig(row.Config)
	if err != nil {
		return ChatAgent{}, err
	}
	return ChatAgent{
		ID:           db.UUIDString(row.ID),
		CustomerID:   db.UUIDString(row.CustomerID),
		Name:         row.Name,
		Description:  row.Description,
		SystemPrompt: row.SystemPrompt,
		Config:       cfg,
		IsActive:     row.IsActive,
		CreatedAt:    db.TimeFromPg(row.CreatedAt),
		UpdatedAt:    db.TimeFromPg(row.UpdatedAt),
	}, nil
}

func toChatAgents(rows []sqlc.ChatAgent) ([]ChatAgent, error) {
	items := make([]ChatAgent, 0, len(rows))
	for _, row := range rows {
		agent, err := toChatAgent(row)
		if err != nil {
			return nil, err
		}
		items = append(items, agent)
	}
	return items, nil
}
