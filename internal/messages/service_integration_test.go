//go:build ignore
// +build ignore

package messages_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/db"
	"github.com/dojotek/chatbot/internal/db/sqlc"
	"github.com/dojotek/chatbot/internal/messages"
)

func setupMessagesIntegrationTest(t *testing.T) (*sqlc.Queries, *messages.Service, func()) {
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
	svc := messages.NewService(logger, queries, nil, config.CacheConfig{})

	return queries, svc, func() { pool.Close() }
}

func createSessionForMessageTest(ctx context.Context, queries *sqlc.Queries) (string, error) {
	customer, err := queries.CreateCustomer(ctx, "Message Test Co")
	if err != nil {
		return "", err
	}
	agent, err := queries.CreateChatAgent(ctx, sqlc.CreateChatAgentParams{
		CustomerID:   customer.ID,
		Name:         "Message Test Agent",
		Description:  "integration fixture",
		SystemPrompt: "You are a test agent.",
		Config:       []byte("{}"),
	})
	if err != nil {
		return "", err
	}
	staffRow, err := queries.CreateCustomerStaff(ctx, sqlc.CreateCustomerStaffParams{
		CustomerID: customer.ID,
		Name:       "Message Tester",
		Email:      "message.tester@example.com",
	})
	if err != nil {
		return "", err
	}
	session, err := queries.CreateChatSession(ctx, sqlc.CreateChatSessionParams{
		ChatAgentID:     agent.ID,
		CustomerID:      customer.ID,
		CustomerStaffID: staffRow.ID,
		Platform:        "sample",
		ThreadID:        "thread-itest",
		SessionData:     []byte("{}"),
		Status:          "active",
		ExpiresAt:       pgtype.Timestamptz{Time: time.Now().Add(time.Hour), Valid: true},
	})
	if err != nil {
		return "", err
	}
	return db.UUIDString(session.ID), nil
}

func seedConversation(ctx context.Context, svc *messages.Service, sessionID string, turns int) ([]string, error) {
	ids := make([]string, 0, turns)
	for i := 0; i < turns; i++ {
		messageType := messages.TypeUser
		if i%2 == 1 {
			messageType = messages.TypeAI
		}
		created, err := svc.Create(ctx, messages.CreateMessageRequest{
			ChatSessionID: sessionID,
			MessageType:   messageType,
			Content:       fmt.Sprintf("turn %d", i+1),
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, created.ID)
	}
	return ids, nil
}

func TestHistoryBeforeWindowed(t *testing.T) {
	queries, svc, cleanup := setupMessagesIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	sessionID, err := createSessionForMessageTest(ctx, queries)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	ids, err := seedConversation(ctx, svc, sessionID, 5)
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	current := ids[len(ids)-1]

	history, err := svc.HistoryBefore(ctx, sessionID, current, 3)
	if err != nil {
		t.Fatalf("HistoryBefore: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history len = %d, want 3", len(history))
	}
	// Chronological order, ending just before the current message.
	for i, want := range ids[1:4] {
		if history[i].ID != want {
			t.Fatalf("history[%d] = %s, want %s", i, history[i].ID, want)
		}
	}
	for _, m := range history {
		if m.ID == current {
			t.Fatal("current message leaked into its own history")
		}
	}
}

func TestHistoryBeforeWindowLargerThanHistory(t *testing.T) {
	queries, svc, cleanup := setupMessagesIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	sessionID, err := createSessionForMessageTest(ctx, queries)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	ids, err := seedConversation(ctx, svc, sessionID, 3)
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}

	history, err := svc.HistoryBefore(ctx, sessionID, ids[2], 10)
	if err != nil {
		t.Fatalf("HistoryBefore: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history len = %d, want 2", len(history))
	}
	if history[0].ID != ids[0] || history[1].ID != ids[1] {
		t.Fatalf("unexpected order: %s, %s", history[0].ID, history[1].ID)
	}
}

func TestPrecedingReturnsNewestEarlierMessage(t *testing.T) {
	queries, svc, cleanup := setupMessagesIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	sessionID, err := createSessionForMessageTest(ctx, queries)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	ids, err := seedConversation(ctx, svc, sessionID, 3)
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}

	last, err := svc.Get(ctx, ids[2])
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	preceding, err := svc.Preceding(ctx, sessionID, last.CreatedAt)
	if err != nil {
		t.Fatalf("Preceding: %v", err)
	}
	if preceding.ID != ids[1] {
		t.Fatalf("preceding = %s, want %s", preceding.ID, ids[1])
	}
}
