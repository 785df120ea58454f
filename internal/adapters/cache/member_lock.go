package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	portsclients "github.com/SscSPs/mdp_service/internal/core/ports/clients"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultMemberLockTTL bounds how long a crashed holder can block a member.
const DefaultMemberLockTTL = 2 * time.Minute

// releaseScript deletes the lock only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisMemberLock is a per-member SET NX lock.
type RedisMemberLock struct {
	rdb      redis.Cmdable
	ttl      time.Duration
	newToken func() string
}

func NewRedisMemberLock(rdb redis.Cmdable, ttl time.Duration) *RedisMemberLock {
	if ttl <= 0 {
		ttl = DefaultMemberLockTTL
	}
	return &RedisMemberLock{rdb: rdb, ttl: ttl, newToken: uuid.NewString}
}

var _ portsclients.MemberLock = (*RedisMemberLock)(nil)

func (l *RedisMemberLock) Acquire(ctx context.Context, businessGroup, referenceNumber string) (func(context.Context) error, error) {
	key := memberKey("lock", businessGroup, referenceNumber)
	token := l.newToken()
	acquired, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire member lock: %w", err)
	}
	if !acquired {
		return nil, apperrors.ErrMemberLocked
	}
	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("failed to release member lock: %w", err)
		}
		return nil
	}
	return release, nil
}
