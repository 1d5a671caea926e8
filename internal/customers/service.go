// Package customers manages the tenant companies that own agents, staff,
// and knowledge bases.
package customers

import (
	"context"
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

var ErrCustomerNotFound = errors.New("customer not found")

func NewService(log *slog.Logger, queries *sqlc.Queries, cache Cache, cfg config.CacheConfig) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		cache:   cache,
		ttl:     config.TTLFor(cfg.CustomersTTL, 5*time.Minute),
		logger:  log.With(slog.String("service", "customers")),
	}
}

func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (Customer, error) {
	if s.queries == nil {
		return Customer{}, fmt.Errorf("customer queries not configured")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Customer{}, fmt.Errorf("name is required")
	}
	row, err := s.queries.CreateCustomer(ctx, name)
	if err != nil {
		return Customer{}, err
	}
	return toCustomer(row), nil
}

func (s *Service) Get(ctx context.Context, customerID string) (Customer, error) {
	if s.queries == nil {
		return Customer{}, fmt.Errorf("customer queries not configured")
	}
	pgID, err := db.ParseUUID(customerID)
	if err != nil {
		return Customer{}, err
	}
	key := customerKey(db.UUIDString(pgID))
	if s.cache != nil {
		var cached Customer
		ok, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("customer cache read failed", slog.Any("error", err))
		} else if ok {
			return cached, nil
		}
	}
	row, err := s.queries.GetCustomerByID(ctx, pgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, ErrCustomerNotFound
		}
		return Customer{}, err
	}
	customer := toCustomer(row)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, customer, s.ttl); err != nil {
			s.logger.Warn("customer cache write failed", slog.Any("error", err))
		}
	}
	return customer, nil
}

func (s *Service) List(ctx context.Context, limit, offset int32) ([]Customer, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("customer queries not configured")
	}
	rows, err := s.queries.ListCustomers(ctx, sqlc.ListCustomersParams{
		Limit:  normalizeLimit(limit),
		Offset: max(offset, 0),
	})
	if err != nil {
		return nil, err
	}
	items := make([]Customer, 0, len(rows))
	for _, row := range rows {
		items = append(items, toCustomer(row))
	}
	return items, nil
}

func (s *Service) Update(ctx context.Context, customerID string, req UpdateCustomerRequest) (Customer, error) {
	if s.queries == nil {
		return Customer{}, fmt.Errorf("customer queries not configured")
	}
	pgID, err := db.ParseUUID(customerID)
	if err != nil {
		return Customer{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Customer{}, fmt.Errorf("name is required")
	}
	row, err := s.queries.UpdateCustomer(ctx, sqlc.UpdateCustomerParams{ID: pgID, Name: name})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, ErrCustomerNotFound
		}
		return Customer{}, err
	}
	s.invalidate(ctx, db.UUIDString(pgID))
	return toCustomer(row), nil
}

func (s *Service) SetActive(ctx context.Context, customerID string, active bool) (Customer, error) {
	if s.queries == nil {
		return Customer{}, fmt.Errorf("customer queries not configured")
	}
	pgID, err := db.ParseUUID(customerID)
	if err != nil {
		return Customer{}, err
	}
	row, err := s.queries.SetCustomerActive(ctx, sqlc.SetCustomerActiveParams{ID: pgID, IsActive: active})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, ErrCustomerNotFound
		}
		return Customer{}, err
	}
	s.invalidate(ctx, db.UUIDString(pgID))
	return toCustomer(row), nil
}

func (s *Service) invalidate(ctx context.Context, customerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, customerKey(customerID)); err != nil {
		s.logger.Warn("customer cache invalidate failed", slog.Any("error", err))
	}
}

func customerKey(customerID string) string {
	return "customers:" + customerID
}

func normalizeLimit(limit int32) int32 {
	if limit <= 0 {
		return 50
	}
	if limit > 200 {
		return 200
	}
	return limit
}

func toCustomer(row sqlc.Customer) Customer {
	return Customer{
		ID:        db.UUIDString(row.ID),
		Name:      row.Name,
		IsActive:  row.IsActive,
		CreatedAt: db.TimeFromPg(row.CreatedAt),
		UpdatedAt: db.TimeFromPg(row.UpdatedAt),
	}
}
