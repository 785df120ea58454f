package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/mdp_service/internal/apperrors"
	"github.com/SscSPs/mdp_service/internal/core/domain"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const datesAgesPayload = `{"retirementDatesAges":{"earliestRetirementAge":55},"wordingFlags":["ERA55"]}`

type MockCalculationsClient struct {
	mock.Mock
}

func (m *MockCalculationsClient) RetirementDatesAges(ctx context.Context, businessGroup, referenceNumber string) (*domain.RetirementDatesAges, error) {
	args := m.Called(ctx, businessGroup, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RetirementDatesAges), args.Error(1)
}

func (m *MockCalculationsClient) RetirementCalculationV2(ctx context.Context, businessGroup, referenceNumber string, effectiveDate time.Time) (*domain.RetirementCalculationResult, error) {
	args := m.Called(ctx, businessGroup, referenceNumber, effectiveDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RetirementCalculationResult), args.Error(1)
}

func (m *MockCalculationsClient) GetGuaranteedQuotes(ctx context.Context, businessGroup, referenceNumber string) ([]domain.GuaranteedQuote, error) {
	args := m.Called(ctx, businessGroup, referenceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GuaranteedQuote), args.Error(1)
}

func TestAccessKeyCache(t *testing.T) {
	ctx := context.Background()
	rdb, rmock := redismock.NewClientMock()
	cache := NewAccessKeyCache(rdb, time.Minute)
	key := "mdp:access-key:RBS:0304442"

	rmock.ExpectGet(key).RedisNil()
	value, found, err := cache.Get(ctx, "RBS", "0304442")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)

	rmock.ExpectSet(key, `{"tenantUrl":"x"}`, time.Minute).SetVal("OK")
	require.NoError(t, cache.Set(ctx, "RBS", "0304442", `{"tenantUrl":"x"}`))

	rmock.ExpectGet(key).SetVal(`{"tenantUrl":"x"}`)
	value, found, err = cache.Get(ctx, "RBS", "0304442")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"tenantUrl":"x"}`, value)

	rmock.ExpectDel(key).SetVal(1)
	require.NoError(t, cache.Remove(ctx, "RBS", "0304442"))

	rmock.ExpectGet(key).SetErr(errors.New("connection refused"))
	_, _, err = cache.Get(ctx, "RBS", "0304442")
	assert.Error(t, err)

	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestNewAccessKeyCache_DefaultTTL(t *testing.T) {
	rdb, _ := redismock.NewClientMock()

	cache := NewAccessKeyCache(rdb, 0)

	assert.Equal(t, DefaultAccessKeyTTL, cache.ttl)
}

func TestCachedCalculationsClient_RetirementDatesAges(t *testing.T) {
	ctx := context.Background()
	key := "mdp:dates-ages:RBS:0304442"

	t.Run("miss calls the api and stores the payload", func(t *testing.T) {
		rdb, rmock := redismock.NewClientMock()
		next := new(MockCalculationsClient)
		client := NewCachedCalculationsClient(next, rdb, time.Minute)
		fresh, err := domain.ParseRetirementDatesAges(datesAgesPayload)
		require.NoError(t, err)

		rmock.ExpectGet(key).RedisNil()
		next.On("RetirementDatesAges", ctx, "RBS", "0304442").Return(fresh, nil).Once()
		rmock.ExpectSet(key, datesAgesPayload, time.Minute).SetVal("OK")

		got, err := client.RetirementDatesAges(ctx, "RBS", "0304442")

		require.NoError(t, err)
		assert.Same(t, fresh, got)
		next.AssertExpectations(t)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("hit skips the api", func(t *testing.T) {
		rdb, rmock := redismock.NewClientMock()
		next := new(MockCalculationsClient)
		client := NewCachedCalculationsClient(next, rdb, time.Minute)

		rmock.ExpectGet(key).SetVal(datesAgesPayload)

		got, err := client.RetirementDatesAges(ctx, "RBS", "0304442")

		require.NoError(t, err)
		assert.Equal(t, []string{"ERA55"}, got.WordingFlags)
		next.AssertNotCalled(t, "RetirementDatesAges", ctx, "RBS", "0304442")
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("api failure is returned and nothing is cached", func(t *testing.T) {
		rdb, rmock := redismock.NewClientMock()
		next := new(MockCalculationsClient)
		client := NewCachedCalculationsClient(next, rdb, time.Minute)
		apiErr := errors.New("calc api down")

		rmock.ExpectGet(key).RedisNil()
		next.On("RetirementDatesAges", ctx, "RBS", "0304442").Return(nil, apiErr).Once()

		got, err := client.RetirementDatesAges(ctx, "RBS", "0304442")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, apiErr)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("clear drops the entry", func(t *testing.T) {
		rdb, rmock := redismock.NewClientMock()
		client := NewCachedCalculationsClient(new(MockCalculationsClient), rdb, time.Minute)

		rmock.ExpectDel(key).SetVal(1)

		require.NoError(t, client.Clear(ctx, "RBS", "0304442"))
		assert.NoError(t, rmock.ExpectationsWereMet())
	})
}

func TestRedisMemberLock(t *testing.T) {
	ctx := context.Background()
	key := "mdp:lock:RBS:0304442"

	t.Run("acquire and release", func(t *testing.T) {
		rdb, rmock := redismock.NewClientMock()
		lock := NewRedisMemberLock(rdb, time.Minute)
		lock.newToken = func() string { return "token-1" }

		rmock.ExpectSetNX(key, "token-1", time.Minute).SetVal(true)
		rmock.ExpectEvalSha(releaseScript.Hash(), []string{key}, "token-1").SetVal(int64(1))

		release, err := lock.Acquire(ctx, "RBS", "0304442")
		require.NoError(t, err)
		require.NoError(t, release(ctx))
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("held by another request", func(t *testing.T) {
		rdb, rmock := redismock.NewClientMock()
		lock := NewRedisMemberLock(rdb, time.Minute)
		lock.newToken = func() string { return "token-2" }

		rmock.ExpectSetNX(key, "token-2", time.Minute).SetVal(false)

		release, err := lock.Acquire(ctx, "RBS", "0304442")

		assert.Nil(t, release)
		assert.ErrorIs(t, err, apperrors.ErrMemberLocked)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})
}
