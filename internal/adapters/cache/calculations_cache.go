package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mdp_service/internal/core/domain"
	portsclients "github.com/SscSPs/mdp_service/internal/core/ports/clients"
	"github.com/redis/go-redis/v9"
)

// DefaultCalculationsTTL applies when no TTL is configured.
const DefaultCalculationsTTL = 15 * time.Minute

// CachedCalculationsClient caches the dates-ages responses of the wrapped client per member.
// Retirement calculations and guaranteed quotes always go to the API.
type CachedCalculationsClient struct {
	portsclients.CalculationsClient
	rdb redis.Cmdable
	ttl time.Duration
}

func NewCachedCalculationsClient(next portsclients.CalculationsClient, rdb redis.Cmdable, ttl time.Duration) *CachedCalculationsClient {
	if ttl <= 0 {
		ttl = DefaultCalculationsTTL
	}
	return &CachedCalculationsClient{CalculationsClient: next, rdb: rdb, ttl: ttl}
}

var (
	_ portsclients.CalculationsClient = (*CachedCalculationsClient)(nil)
	_ portsclients.CalculationsCache  = (*CachedCalculationsClient)(nil)
)

// RetirementDatesAges serves from Redis when possible. Cache failures fall through to the API.
func (c *CachedCalculationsClient) RetirementDatesAges(ctx context.Context, businessGroup, referenceNumber string) (*domain.RetirementDatesAges, error) {
	key := memberKey("dates-ages", businessGroup, referenceNumber)
	raw, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if datesAges, perr := domain.ParseRetirementDatesAges(raw); perr == nil {
			return datesAges, nil
		}
		slog.WarnContext(ctx, "Discarding unreadable cached dates and ages", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		slog.WarnContext(ctx, "Calculations cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	datesAges, err := c.CalculationsClient.RetirementDatesAges(ctx, businessGroup, referenceNumber)
	if err != nil {
		return nil, err
	}
	if err := c.rdb.Set(ctx, key, datesAges.RawJSON(), c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Calculations cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return datesAges, nil
}

func (c *CachedCalculationsClient) Clear(ctx context.Context, businessGroup, referenceNumber string) error {
	if err := c.rdb.Del(ctx, memberKey("dates-ages", businessGroup, referenceNumber)).Err(); err != nil {
		return fmt.Errorf("failed to clear calculations cache: %w", err)
	}
	return nil
}
