package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	portsclients "github.com/SscSPs/mdp_service/internal/core/ports/clients"
	"github.com/redis/go-redis/v9"
)

// DefaultAccessKeyTTL applies when no TTL is configured.
const DefaultAccessKeyTTL = 30 * time.Minute

// AccessKeyCache keeps serialised access keys in Redis.
type AccessKeyCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewAccessKeyCache(rdb redis.Cmdable, ttl time.Duration) *AccessKeyCache {
	if ttl <= 0 {
		ttl = DefaultAccessKeyTTL
	}
	return &AccessKeyCache{rdb: rdb, ttl: ttl}
}

var _ portsclients.AccessKeyCache = (*AccessKeyCache)(nil)

func (c *AccessKeyCache) Get(ctx context.Context, businessGroup, referenceNumber string) (string, bool, error) {
	value, err := c.rdb.Get(ctx, memberKey("access-key", businessGroup, referenceNumber)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read cached access key: %w", err)
	}
	return value, true, nil
}

func (c *AccessKeyCache) Set(ctx context.Context, businessGroup, referenceNumber, accessKey string) error {
	if err := c.rdb.Set(ctx, memberKey("access-key", businessGroup, referenceNumber), accessKey, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache access key: %w", err)
	}
	return nil
}

func (c *AccessKeyCache) Remove(ctx context.Context, businessGroup, referenceNumber string) error {
	if err := c.rdb.Del(ctx, memberKey("access-key", businessGroup, referenceNumber)).Err(); err != nil {
		return fmt.Errorf("failed to remove cached access key: %w", err)
	}
	return nil
}
