//go:build ignore
// +build ignore

package sessions_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/db"
	"github.com/dojotek/chatbot/internal/db/sqlc"
	"github.com/dojotek/chatbot/internal/sessions"
)

func setupSessionsIntegrationTest(t *testing.T) (*pgxpool.Pool, *sqlc.Queries, *sessions.Service, func()) {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("skip integration test: TEST_POSTGRES_DSN is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("skip integration test: cannot connect to database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("skip integration test: database ping failed: %v", err)
	}

	queries := sqlc.New(pool)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := sessions.NewService(logger, queries, nil, config.SessionsConfig{TTL: "1h"})

	return pool, queries, svc, func() { pool.Close() }
}

// memPointerCache is an in-memory stand-in for the Redis pointer cache. TTLs
// are ignored; entries live until the test ends.
type memPointerCache struct {
	values map[string]string
}

func (m *memPointerCache) GetString(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memPointerCache) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func createScopeForSessionTest(ctx context.Context, queries *sqlc.Queries) (sessions.Scope, error) {
	customer, err := queries.CreateCustomer(ctx, "Session Test Co")
	if err != nil {
		return sessions.Scope{}, err
	}
	agent, err := queries.CreateChatAgent(ctx, sqlc.CreateChatAgentParams{
		CustomerID:   customer.ID,
		Name:         "Session Test Agent",
		Description:  "integration fixture",
		SystemPrompt: "You are a test agent.",
		Config:       []byte("{}"),
	})
	if err != nil {
		return sessions.Scope{}, err
	}
	staffRow, err := queries.CreateCustomerStaff(ctx, sqlc.CreateCustomerStaffParams{
		CustomerID: customer.ID,
		Name:       "Session Tester",
		Email:      "session.tester@example.com",
		Phone:      "",
	})
	if err != nil {
		return sessions.Scope{}, err
	}
	return sessions.Scope{
		ChatAgentID:     db.UUIDString(agent.ID),
		CustomerID:      db.UUIDString(customer.ID),
		CustomerStaffID: db.UUIDString(staffRow.ID),
		Platform:        "sample",
		ThreadID:        "thread-itest",
	}, nil
}

func TestGetOrCreateReusesOpenSession(t *testing.T) {
	_, queries, svc, cleanup := setupSessionsIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	scope, err := createScopeForSessionTest(ctx, queries)
	if err != nil {
		t.Fatalf("create scope: %v", err)
	}

	first, err := svc.GetOrCreate(ctx, scope)
	if err != nil {
		t.Fatalf("first GetOrCreate: %v", err)
	}
	second, err := svc.GetOrCreate(ctx, scope)
	if err != nil {
		t.Fatalf("second GetOrCreate: %v", err)
	}
	if first != second {
		t.Fatalf("expected the open session to be reused, got %s then %s", first, second)
	}
}

func TestGetOrCreateAfterCloseStartsFresh(t *testing.T) {
	_, queries, svc, cleanup := setupSessionsIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	scope, err := createScopeForSessionTest(ctx, queries)
	if err != nil {
		t.Fatalf("create scope: %v", err)
	}

	first, err := svc.GetOrCreate(ctx, scope)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	closed, err := svc.Close(ctx, first)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.Status != sessions.StatusClosed {
		t.Fatalf("status after close = %q", closed.Status)
	}

	next, err := svc.GetOrCreate(ctx, scope)
	if err != nil {
		t.Fatalf("GetOrCreate after close: %v", err)
	}
	if next == first {
		t.Fatal("closed session was reused without a cached pointer")
	}
}

func TestCachedPointerServesClosedSession(t *testing.T) {
	_, queries, _, cleanup := setupSessionsIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	scope, err := createScopeForSessionTest(ctx, queries)
	if err != nil {
		t.Fatalf("create scope: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := sessions.NewService(logger, queries, &memPointerCache{}, config.SessionsConfig{TTL: "1h"})

	first, err := svc.GetOrCreate(ctx, scope)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if _, err := svc.Close(ctx, first); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// The pointer is not invalidated on close; the closed id keeps coming
	// back until the pointer TTL lapses.
	again, err := svc.GetOrCreate(ctx, scope)
	if err != nil {
		t.Fatalf("GetOrCreate after close: %v", err)
	}
	if again != first {
		t.Fatalf("expected cached pointer %s, got %s", first, again)
	}
	session, err := svc.Get(ctx, again)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session.Status != sessions.StatusClosed {
		t.Fatalf("status = %q, want closed", session.Status)
	}
}

func TestExpireDueFlipsPastDeadlineSessions(t *testing.T) {
	pool, queries, svc, cleanup := setupSessionsIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	scope, err := createScopeForSessionTest(ctx, queries)
	if err != nil {
		t.Fatalf("create scope: %v", err)
	}

	sessionID, err := svc.GetOrCreate(ctx, scope)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if _, err := pool.Exec(ctx, "UPDATE chat_sessions SET expires_at = now() - interval '1 minute' WHERE id = $1", sessionID); err != nil {
		t.Fatalf("backdate session: %v", err)
	}

	expired, err := svc.ExpireDue(ctx)
	if err != nil {
		t.Fatalf("ExpireDue: %v", err)
	}
	if expired < 1 {
		t.Fatalf("expired %d sessions, want at least 1", expired)
	}

	session, err := svc.Get(ctx, sessionID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session.Status != sessions.StatusExpired {
		t.Fatalf("status = %q, want expired", session.Status)
	}
}
