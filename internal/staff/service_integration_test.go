//go:build ignore
// +build ignore

package staff_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/db"
	"github.com/dojotek/chatbot/internal/db/sqlc"
	"github.com/dojotek/chatbot/internal/staff"
)

func setupStaffIntegrationTest(t *testing.T) (*sqlc.Queries, *staff.Service, func()) {
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
	svc := staff.NewService(logger, queries, nil, config.CacheConfig{})

	return queries, svc, func() { pool.Close() }
}

func TestEnsureIdentityProvisionsUnknownSender(t *testing.T) {
	queries, svc, cleanup := setupStaffIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	customer, err := queries.CreateCustomer(ctx, "Identity Test Co")
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	customerID := db.UUIDString(customer.ID)
	// Unique per run so reruns against the same database do not collide on
	// the active-identity index.
	platformUserID := fmt.Sprintf("U%d", time.Now().UnixNano())

	identity, err := svc.EnsureIdentity(ctx, customerID, "slack", platformUserID)
	if err != nil {
		t.Fatalf("EnsureIdentity: %v", err)
	}
	if identity.Platform != "slack" || identity.PlatformUserID != platformUserID {
		t.Fatalf("provisioned identity = %+v", identity)
	}
	if !identity.IsActive {
		t.Fatal("provisioned identity is not active")
	}

	member, err := svc.Get(ctx, identity.CustomerStaffID)
	if err != nil {
		t.Fatalf("load provisioned staff: %v", err)
	}
	if member.CustomerID != customerID {
		t.Fatalf("staff customer = %q, want %q", member.CustomerID, customerID)
	}
	wantName := "slack user " + platformUserID[:8]
	if member.Name != wantName {
		t.Fatalf("staff name = %q, want %q", member.Name, wantName)
	}
	wantEmail := "slack." + platformUserID + "@staff.invalid"
	if member.Email != wantEmail {
		t.Fatalf("staff email = %q, want %q", member.Email, wantEmail)
	}
}

func TestEnsureIdentityIsIdempotent(t *testing.T) {
	queries, svc, cleanup := setupStaffIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	customer, err := queries.CreateCustomer(ctx, "Identity Test Co")
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	customerID := db.UUIDString(customer.ID)
	platformUserID := fmt.Sprintf("U%d", time.Now().UnixNano())

	first, err := svc.EnsureIdentity(ctx, customerID, "slack", platformUserID)
	if err != nil {
		t.Fatalf("first EnsureIdentity: %v", err)
	}
	second, err := svc.EnsureIdentity(ctx, customerID, "slack", platformUserID)
	if err != nil {
		t.Fatalf("second EnsureIdentity: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the identity to be reused, got %s then %s", first.ID, second.ID)
	}
	if first.CustomerStaffID != second.CustomerStaffID {
		t.Fatalf("staff differs across calls: %s vs %s", first.CustomerStaffID, second.CustomerStaffID)
	}
}
