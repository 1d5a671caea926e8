// Package sessions manages chat session lifecycle: lookup and creation per
// conversation scope, closing, and expiry of idle sessions.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/db"
	"github.com/dojotek/chatbot/internal/db/sqlc"
)

// Cache is the subset of the shared cache this service reads and writes.
// Session pointers are stored as plain strings keyed by scope.
type Cache interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
}

type Service struct {
	queries *sqlc.Queries
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
}

var ErrSessionNotFound = errors.New("chat session not found")

func NewService(log *slog.Logger, queries *sqlc.Queries, cache Cache, cfg config.SessionsConfig) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		cache:   cache,
		ttl:     cfg.SessionTTL(),
		logger:  log.With(slog.String("service", "sessions")),
	}
}

// GetOrCreate returns the id of the open session for a conversation scope,
// creating one when none exists. A cached pointer is returned as-is, with no
// liveness check against the store; the pointer TTL equals the session TTL
// so both lapse together. Concurrent creates can race, and later lookups
// settle on the newest open row.
func (s *Service) GetOrCreate(ctx context.Context, scope Scope) (string, error) {
	if s.queries == nil {
		return "", fmt.Errorf("session queries not configured")
	}
	agentID, err := db.ParseUUID(scope.ChatAgentID)
	if err != nil {
		return "", err
	}
	customerID, err := db.ParseUUID(scope.CustomerID)
	if err != nil {
		return "", err
	}
	staffID, err := db.ParseUUID(scope.CustomerStaffID)
	if err != nil {
		return "", err
	}
	platform := strings.ToLower(strings.TrimSpace(scope.Platform))
	if platform == "" {
		return "", fmt.Errorf("platform is required")
	}

	key := pointerKey(db.UUIDString(agentID), db.UUIDString(customerID), db.UUIDString(staffID), platform)
	if s.cache != nil {
		cachedID, ok, err := s.cache.GetString(ctx, key)
		if err != nil {
			s.logger.Warn("session pointer read failed", slog.Any("error", err))
		} else if ok {
			return cachedID, nil
		}
	}

	row, err := s.queries.GetNewestOpenSession(ctx, sqlc.GetNewestOpenSessionParams{
		ChatAgentID:     agentID,
		CustomerStaffID: staffID,
		Platform:        platform,
	})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		row, err = s.queries.CreateChatSession(ctx, sqlc.CreateChatSessionParams{
			ChatAgentID:     agentID,
			CustomerID:      customerID,
			CustomerStaffID: staffID,
			Platform:        platform,
			ThreadID:        strings.TrimSpace(scope.ThreadID),
			SessionData:     []byte("{}"),
			Status:          StatusActive,
			ExpiresAt:       pgtype.Timestamptz{Time: time.Now().Add(s.ttl), Valid: true},
		})
		if err != nil {
			return "", err
		}
		s.logger.Info("created chat session",
			slog.String("chat_session_id", db.UUIDString(row.ID)),
			slog.String("platform", platform),
		)
	}

	sessionID := db.UUIDString(row.ID)
	if s.cache != nil {
		if err := s.cache.SetString(ctx, key, sessionID, s.ttl); err != nil {
			s.logger.Warn("session pointer write failed", slog.Any("error", err))
		}
	}
	return sessionID, nil
}

func (s *Service) Get(ctx context.Context, sessionID string) (ChatSession, error) {
	if s.queries == nil {
		return ChatSession{}, fmt.Errorf("session queries not configured")
	}
	pgID, err := db.ParseUUID(sessionID)
	if err != nil {
		return ChatSession{}, err
	}
	row, err := s.queries.GetChatSessionByID(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ChatSession{}, ErrSessionNotFound
		}
		return ChatSession{}, err
	}
	return toChatSession(row)
}

// Close marks a session closed. The cached pointer is not invalidated, so
// GetOrCreate may keep returning the closed session's id until the pointer
// TTL runs out.
func (s *Service) Close(ctx context.Context, sessionID string) (ChatSession, error) {
	if s.queries == nil {
		return ChatSession{}, fmt.Errorf("session queries not configured")
	}
	pgID, err := db.ParseUUID(sessionID)
	if err != nil {
		return ChatSession{}, err
	}
	row, err := s.queries.CloseChatSession(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ChatSession{}, ErrSessionNotFound
		}
		return ChatSession{}, err
	}
	return toChatSession(row)
}

func (s *Service) ListByStaff(ctx context.Context, staffID string, limit, offset int32) ([]ChatSession, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("session queries not configured")
	}
	pgID, err := db.ParseUUID(staffID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.queries.ListSessionsByStaff(ctx, sqlc.ListSessionsByStaffParams{
		CustomerStaffID: pgID,
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]ChatSession, 0, len(rows))
	for _, row := range rows {
		session, err := toChatSession(row)
		if err != nil {
			return nil, err
		}
		items = append(items, session)
	}
	return items, nil
}

// ExpireDue flips sessions past their deadline to expired and reports how
// many rows changed.
func (s *Service) ExpireDue(ctx context.Context) (int64, error) {
	if s.queries == nil {
		return 0, fmt.Errorf("session queries not configured")
	}
	return s.queries.ExpireChatSessions(ctx)
}

func pointerKey(chatAgentID, customerID, staffID, platform string) string {
	return "session:" + chatAgentID + ":" + customerID + ":" + staffID + ":" + platform
}

func toChatSession(row sqlc.ChatSession) (ChatSession, error) {
	var data map[string]any
	if len(row.SessionData) > 0 {
		if err := json.Unmarshal(row.SessionData, &data); err != nil {
			return ChatSession{}, err
		}
	}
	if data == nil {
		data = map[string]any{}
	}
	return ChatSession{
		ID:              db.UUIDString(row.ID),
		ChatAgentID:     db.UUIDString(row.ChatAgentID),
		CustomerID:      db.UUIDString(row.CustomerID),
		CustomerStaffID: db.UUIDString(row.CustomerStaffID),
		Platform:        row.Platform,
		ThreadID:        row.ThreadID,
		SessionData:     data,
		Status:          row.Status,
		ExpiresAt:       db.TimeFromPg(row.ExpiresAt),
		CreatedAt:       db.TimeFromPg(row.CreatedAt),
		UpdatedAt:       db.TimeFromPg(row.UpdatedAt),
	}, nil
}
