// Package staff manages customer staff records and their per-platform
// identities. Webhook senders are resolved here, and unknown senders are
// provisioned on first contact so the conversation can proceed.
package staff

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

var (
	ErrStaffNotFound    = errors.New("customer staff not found")
	ErrIdentityNotFound = errors.New("staff identity not found")
)

func NewService(log *slog.Logger, queries *sqlc.Queries, cache Cache, cfg config.CacheConfig) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		cache:   cache,
		ttl:     config.TTLFor(cfg.StaffIdentitiesTTL, 15*time.Minute),
		logger:  log.With(slog.String("service", "staff")),
	}
}

func (s *Service) Create(ctx context.Context, req CreateStaffRequest) (CustomerStaff, error) {
	if s.queries == nil {
		return CustomerStaff{}, fmt.Errorf("staff queries not configured")
	}
	customerID, err := db.ParseUUID(req.CustomerID)
	if err != nil {
		return CustomerStaff{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return CustomerStaff{}, fmt.Errorf("name is required")
	}
	row, err := s.queries.CreateCustomerStaff(ctx, sqlc.CreateCustomerStaffParams{
		CustomerID: customerID,
		Name:       name,
		Email:      strings.TrimSpace(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
	})
	if err != nil {
		return CustomerStaff{}, err
	}
	return toCustomerStaff(row), nil
}

func (s *Service) Get(ctx context.Context, staffID string) (CustomerStaff, error) {
	if s.queries == nil {
		return CustomerStaff{}, fmt.Errorf("staff queries not configured")
	}
	pgID, err := db.ParseUUID(staffID)
	if err != nil {
		return CustomerStaff{}, err
	}
	row, err := s.queries.GetCustomerStaffByID(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CustomerStaff{}, ErrStaffNotFound
		}
		return CustomerStaff{}, err
	}
	return toCustomerStaff(row), nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string, limit, offset int32) ([]CustomerStaff, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("staff queries not configured")
	}
	pgID, err := db.ParseUUID(customerID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.queries.ListCustomerStaffsByCustomer(ctx, sqlc.ListCustomerStaffsByCustomerParams{
		CustomerID: pgID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]CustomerStaff, 0, len(rows))
	for _, row := range rows {
		items = append(items, toCustomerStaff(row))
	}
	return items, nil
}

func (s *Service) CreateIdentity(ctx context.Context, req CreateIdentityRequest) (Identity, error) {
	if s.queries == nil {
		return Identity{}, fmt.Errorf("staff queries not configured")
	}
	staffID, err := db.ParseUUID(req.CustomerStaffID)
	if err != nil {
		return Identity{}, err
	}
	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	platformUserID := strings.TrimSpace(req.PlatformUserID)
	if platform == "" || platformUserID == "" {
		return Identity{}, fmt.Errorf("platform and platform user id are required")
	}
	data := req.PlatformData
	if data == nil {
		data = map[string]any{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return Identity{}, err
	}
	row, err := s.queries.CreateStaffIdentity(ctx, sqlc.CreateStaffIdentityParams{
		CustomerStaffID: staffID,
		Platform:        platform,
		PlatformUserID:  platformUserID,
		PlatformData:    payload,
	})
	if err != nil {
		return Identity{}, err
	}
	s.invalidateIdentity(ctx, platform, platformUserID)
	return toIdentity(row)
}

// ResolveIdentity finds the active identity behind a platform sender.
func (s *Service) ResolveIdentity(ctx context.Context, platform, platformUserID string) (Identity, error) {
	if s.queries == nil {
		return Identity{}, fmt.Errorf("staff queries not configured")
	}
	platform = strings.ToLower(strings.TrimSpace(platform))
	platformUserID = strings.TrimSpace(platformUserID)
	if platform == "" || platformUserID == "" {
		return Identity{}, ErrIdentityNotFound
	}
	key := identityKey(platform, platformUserID)
	if s.cache != nil {
		var cached Identity
		ok, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("staff identity cache read failed", slog.Any("error", err))
		} else if ok {
			return cached, nil
		}
	}
	row, err := s.queries.GetActiveIdentityByPlatformUser(ctx, sqlc.GetActiveIdentityByPlatformUserParams{
		Platform:       platform,
		PlatformUserID: platformUserID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, ErrIdentityNotFound
		}
		return Identity{}, err
	}
	identity, err := toIdentity(row)
	if err != nil {
		return Identity{}, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, identity, s.ttl); err != nil {
			s.logger.Warn("staff identity cache write failed", slog.Any("error", err))
		}
	}
	return identity, nil
}

// EnsureIdentity resolves a platform sender, provisioning a staff record
// and identity on first contact. The placeholder staff name is derived
// from the platform user id so repeated provisioning is deterministic.
// Concurrent first messages race on the partial unique index; the loser
// re-resolves the winner's row.
func (s *Service) EnsureIdentity(ctx context.Context, customerID, platform, platformUserID string) (Identity, error) {
	if s.queries == nil {
		return Identity{}, fmt.Errorf("staff queries not configured")
	}
	platform = strings.ToLower(strings.TrimSpace(platform))
	platformUserID = strings.TrimSpace(platformUserID)
	if platform == "" || platformUserID == "" {
		return Identity{}, fmt.Errorf("platform and platform user id are required")
	}
	identity, err := s.ResolveIdentity(ctx, platform, platformUserID)
	if err == nil {
		return identity, nil
	}
	if !errors.Is(err, ErrIdentityNotFound) {
		return Identity{}, err
	}

	customerUUID, err := db.ParseUUID(customerID)
	if err != nil {
		return Identity{}, err
	}
	staffRow, err := s.queries.CreateCustomerStaff(ctx, sqlc.CreateCustomerStaffParams{
		CustomerID: customerUUID,
		Name:       placeholderName(platform, platformUserID),
		Email:      placeholderEmail(platform, platformUserID),
	})
	if err != nil {
		return Identity{}, fmt.Errorf("provision staff: %w", err)
	}
	payload, err := json.Marshal(map[string]any{"provisioned": true})
	if err != nil {
		return Identity{}, err
	}
	row, err := s.queries.CreateStaffIdentity(ctx, sqlc.CreateStaffIdentityParams{
		CustomerStaffID: staffRow.ID,
		Platform:        platform,
		PlatformUserID:  platformUserID,
		PlatformData:    payload,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return s.ResolveIdentity(ctx, platform, platformUserID)
		}
		return Identity{}, fmt.Errorf("provision identity: %w", err)
	}
	s.logger.Info("provisioned staff identity",
		slog.String("platform", platform),
		slog.String("platform_user_id", platformUserID),
		slog.String("customer_staff_id", db.UUIDString(staffRow.ID)),
	)
	identity, err = toIdentity(row)
	if err != nil {
		return Identity{}, err
	}
	if s.cache != nil {
		key := identityKey(platform, platformUserID)
		if err := s.cache.Set(ctx, key, identity, s.ttl); err != nil {
			s.logger.Warn("staff identity cache write failed", slog.Any("error", err))
		}
	}
	return identity, nil
}

// ActiveIdentityForStaff returns the staff member's active identity on one
// platform. Outbound delivery uses this to address direct messages.
func (s *Service) ActiveIdentityForStaff(ctx context.Context, staffID, platform string) (Identity, error) {
	if s.queries == nil {
		return Identity{}, fmt.Errorf("staff queries not configured")
	}
	pgID, err := db.ParseUUID(staffID)
	if err != nil {
		return Identity{}, err
	}
	platform = strings.ToLower(strings.TrimSpace(platform))
	row, err := s.queries.GetActiveIdentityForStaff(ctx, sqlc.GetActiveIdentityForStaffParams{
		CustomerStaffID: pgID,
		Platform:        platform,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, ErrIdentityNotFound
		}
		return Identity{}, err
	}
	return toIdentity(row)
}

func (s *Service) ListIdentities(ctx context.Context, staffID string) ([]Identity, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("staff queries not configured")
	}
	pgID, err := db.ParseUUID(staffID)
	if err != nil {
		return nil, err
	}
	rows, err := s.queries.ListIdentitiesByStaff(ctx, pgID)
	if err != nil {
		return nil, err
	}
	items := make([]Identity, 0, len(rows))
	for _, row := range rows {
		identity, err := toIdentity(row)
		if err != nil {
			return nil, err
		}
		items = append(items, identity)
	}
	return items, nil
}

func (s *Service) SetIdentityActive(ctx context.Context, identityID string, active bool) (Identity, error) {
	if s.queries == nil {
		return Identity{}, fmt.Errorf("staff queries not configured")
	}
	pgID, err := db.ParseUUID(identityID)
	if err != nil {
		return Identity{}, err
	}
	row, err := s.queries.SetStaffIdentityActive(ctx, sqlc.SetStaffIdentityActiveParams{ID: pgID, IsActive: active})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, ErrIdentityNotFound
		}
		return Identity{}, err
	}
	s.invalidateIdentity(ctx, row.Platform, row.PlatformUserID)
	return toIdentity(row)
}

func (s *Service) invalidateIdentity(ctx context.Context, platform, platformUserID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, identityKey(platform, platformUserID)); err != nil {
		s.logger.Warn("staff identity cache invalidate failed", slog.Any("error", err))
	}
}

func identityKey(platform, platformUserID string) string {
	return "staff_identities:" + platform + ":" + platformUserID
}

// placeholderName derives the provisioned staff display name from the sender.
// Long platform user ids are truncated so names stay readable.
func placeholderName(platform, platformUserID string) string {
	prefix := platformUserID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return platform + " user " + prefix
}

func placeholderEmail(platform, platformUserID string) string {
	return platform + "." + platformUserID + "@staff.invalid"
}

func toCustomerStaff(row sqlc.CustomerStaff) CustomerStaff {
	return CustomerStaff{
		ID:         db.UUIDString(row.ID),
		CustomerID: db.UUIDString(row.CustomerID),
		Name:       row.Name,
		Email:      row.Email,
		Phone:      row.Phone,
		IsActive:   row.IsActive,
		CreatedAt:  db.TimeFromPg(row.CreatedAt),
		UpdatedAt:  db.TimeFromPg(row.UpdatedAt),
	}
}

func toIdentity(row sqlc.CustomerStaffIdentity) (Identity, error) {
	var data map[string]any
	if len(row.PlatformData) > 0 {
		if err := json.Unmarshal(row.PlatformData, &data); err != nil {
			return Identity{}, err
		}
	}
	if data == nil {
		data = map[string]any{}
	}
	return Identity{
		ID:              db.UUIDString(row.ID),
		CustomerStaffID: db.UUIDString(row.CustomerStaffID),
		Platform:        row.Platform,
		PlatformUserID:  row.PlatformUserID,
		PlatformData:    data,
		IsActive:        row.IsActive,
		CreatedAt:       db.TimeFromPg(row.CreatedAt),
		UpdatedAt:       db.TimeFromPg(row.UpdatedAt),
	}, nil
}
