package clients

import (
	"context"
)

// AccessKeyCache stores serialised access keys per member.
type AccessKeyCache interface {
	// Get reports false when no key is cached.
	Get(ctx context.Context, businessGroup, referenceNumber string) (string, bool, error)
	Set(ctx context.Context, businessGroup, referenceNumber, accessKey string) error
	Remove(ctx context.Context, businessGroup, referenceNumber string) error
}

// CalculationsCache holds cached calculation API responses per member.
type CalculationsCache interface {
	Clear(ctx context.Context, businessGroup, referenceNumber string) error
}

// MemberLock serialises recalculation for a member.
type MemberLock interface {
	// Acquire returns apperrors.ErrMemberLocked when another holder has the lock.
	Acquire(ctx context.Context, businessGroup, referenceNumber string) (release func(context.Context) error, err error)
}
