// Package messages persists chat transcripts and serves the conversation
// history windows handed to response generation.
package messages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/db"
	"github.com/dojotek/chatbot/internal/db/sqlc"
)

// Cache is the subset of the shared cache this service reads and writes.
// Messages are immutable once written, so by-id entries never go stale.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Service struct {
	queries *sqlc.Queries
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
}

var ErrMessageNotFound = errors.New("chat message not found")

func NewService(log *slog.Logger, queries *sqlc.Queries, cache Cache, cfg config.CacheConfig) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		cache:   cache,
		ttl:     config.TTLFor(cfg.ChatMessagesTTL, time.Minute),
		logger:  log.With(slog.String("service", "messages")),
	}
}

func (s *Service) Create(ctx context.Context, req CreateMessageRequest) (ChatMessage, error) {
	if s.queries == nil {
		return ChatMessage{}, fmt.Errorf("message queries not configured")
	}
	sessionID, err := db.ParseUUID(req.ChatSessionID)
	if err != nil {
		return ChatMessage{}, err
	}
	switch req.MessageType {
	case TypeUser, TypeAI, TypeSystem:
	default:
		return ChatMessage{}, fmt.Errorf("invalid message type: %s", req.MessageType)
	}
	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	payload, err := json.Marshal(metadata)
	if err != nil {
		return ChatMessage{}, err
	}
	row, err := s.queries.CreateChatMessage(ctx, sqlc.CreateChatMessageParams{
		ChatSessionID: sessionID,
		MessageType:   req.MessageType,
		Content:       req.Content,
		Metadata:      payload,
	})
	if err != nil {
		return ChatMessage{}, err
	}
	message, err := toChatMessage(row)
	if err != nil {
		return ChatMessage{}, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, messageKey(message.ID), message, s.ttl); err != nil {
			s.logger.Warn("message cache write failed", slog.Any("error", err))
		}
	}
	return message, nil
}

func (s *Service) Get(ctx context.Context, messageID string) (ChatMessage, error) {
	if s.queries == nil {
		return ChatMessage{}, fmt.Errorf("message queries not configured")
	}
	pgID, err := db.ParseUUID(messageID)
	if err != nil {
		return ChatMessage{}, err
	}
	key := messageKey(db.UUIDString(pgID))
	if s.cache != nil {
		var cached ChatMessage
		ok, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("message cache read failed", slog.Any("error", err))
		} else if ok {
			return cached, nil
		}
	}
	row, err := s.queries.GetChatMessageByID(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ChatMessage{}, ErrMessageNotFound
		}
		return ChatMessage{}, err
	}
	message, err := toChatMessage(row)
	if err != nil {
		return ChatMessage{}, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, message, s.ttl); err != nil {
			s.logger.Warn("message cache write failed", slog.Any("error", err))
		}
	}
	return message, nil
}

// HistoryBefore returns up to window messages preceding the excluded
// message, oldest first. The triggering message itself never appears in
// its own history.
func (s *Service) HistoryBefore(ctx context.Context, sessionID, excludeMessageID string, window int) ([]ChatMessage, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("message queries not configured")
	}
	if window <= 0 {
		return nil, nil
	}
	pgID, err := db.ParseUUID(sessionID)
	if err != nil {
		return nil, err
	}
	rows, err := s.queries.ListRecentSessionMessages(ctx, sqlc.ListRecentSessionMessagesParams{
		ChatSessionID: pgID,
		Limit:         int32(window + 1),
	})
	if err != nil {
		return nil, err
	}
	recent := make([]ChatMessage, 0, len(rows))
	for _, row := range rows {
		if db.UUIDString(row.ID) == excludeMessageID {
			continue
		}
		message, err := toChatMessage(row)
		if err != nil {
			return nil, err
		}
		recent = append(recent, message)
	}
	if len(recent) > window {
		recent = recent[:window]
	}
	// Newest-first from the query; flip to chronological order.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent, nil
}

// Preceding returns the session message created most recently before the
// given instant. Outbound delivery falls back to it when a reply carries
// no channel of its own.
func (s *Service) Preceding(ctx context.Context, sessionID string, before time.Time) (ChatMessage, error) {
	if s.queries == nil {
		return ChatMessage{}, fmt.Errorf("message queries not configured")
	}
	pgID, err := db.ParseUUID(sessionID)
	if err != nil {
		return ChatMessage{}, err
	}
	row, err := s.queries.GetPrecedingMessage(ctx, sqlc.GetPrecedingMessageParams{
		ChatSessionID: pgID,
		CreatedAt:     pgtype.Timestamptz{Time: before, Valid: true},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ChatMessage{}, ErrMessageNotFound
		}
		return ChatMessage{}, err
	}
	return toChatMessage(row)
}

func (s *Service) ListBySession(ctx context.Context, sessionID string, limit, offset int32) ([]ChatMessage, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("message queries not configured")
	}
	pgID, err := db.ParseUUID(sessionID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.queries.ListSessionMessages(ctx, sqlc.ListSessionMessagesParams{
		ChatSessionID: pgID,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]ChatMessage, 0, len(rows))
	for _, row := range rows {
		message, err := toChatMessage(row)
		if err != nil {
			return nil, err
		}
		items = append(items, message)
	}
	return items, nil
}

func messageKey(messageID string) string {
	return "chat_messages:" + messageID
}

func toChatMessage(row sqlc.ChatMessage) (ChatMessage, error) {
	var metadata map[string]any
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &metadata); err != nil {
			return ChatMessage{}, err
		}
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return ChatMessage{
		ID:            db.UUIDString(row.ID),
		ChatSessionID: db.UUIDString(row.ChatSessionID),
		MessageType:   row.MessageType,
		Content:       row.Content,
		Metadata:      metadata,
		CreatedAt:     db.TimeFromPg(row.CreatedAt),
	}, nil
}
