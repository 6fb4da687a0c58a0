package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func TestRedisLimiter_BlocksAfterLimitWithinWindow(t *testing.T) {
	client, mr := setupRedis(t)
	limiter := NewRedisLimiter(client, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, ok)

	// Other clients are unaffected.
	ok, err = limiter.Allow(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(61 * time.Second)

	ok, err = limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, ok, "window expired")
}

func TestRedisLimiter_SetsExpiryOnEveryHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRedisLimiter(db, 5, 10*time.Minute)

	mock.ExpectTxPipeline()
	mock.ExpectIncr(keyPrefix + "client").SetVal(1)
	mock.ExpectExpireNX(keyPrefix+"client", 10*time.Minute).SetVal(true)
	mock.ExpectTxPipelineExec()

	mock.ExpectTxPipeline()
	mock.ExpectIncr(keyPrefix + "client").SetVal(2)
	mock.ExpectExpireNX(keyPrefix+"client", 10*time.Minute).SetVal(false)
	mock.ExpectTxPipelineExec()

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(context.Background(), "client")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLimiter_RecoversCounterWithoutTTL(t *testing.T) {
	client, mr := setupRedis(t)
	limiter := NewRedisLimiter(client, 2, time.Minute)
	ctx := context.Background()

	// a counter left behind by a crash between INCR and EXPIRE
	require.NoError(t, mr.Set(keyPrefix+"203.0.113.7", "5"))
	assert.Zero(t, mr.TTL(keyPrefix+"203.0.113.7"))

	ok, err := limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"203.0.113.7"))

	mr.FastForward(61 * time.Second)

	ok, err = limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_DoesNotExtendLiveWindow(t *testing.T) {
	client, mr := setupRedis(t)
	limiter := NewRedisLimiter(client, 5, time.Minute)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "client")
	require.NoError(t, err)
	mr.FastForward(40 * time.Second)
	_, err = limiter.Allow(ctx, "client")
	require.NoError(t, err)

	assert.Equal(t, 20*time.Second, mr.TTL(keyPrefix+"client"))
}

func TestRedisLimiter_PropagatesRedisErrors(t *testing.T) {
	client, mr := setupRedis(t)
	limiter := NewRedisLimiter(client, 5, time.Minute)
	mr.SetError("connection reset")

	ok, err := limiter.Allow(context.Background(), "client")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisLimiter_EmptyKeyAlwaysAllowed(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRedisLimiter(db, 1, time.Minute)

	ok, err := limiter.Allow(context.Background(), "  ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryLimiter_TokenBucket(t *testing.T) {
	limiter := NewMemoryLimiter(2, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _ := limiter.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = limiter.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = limiter.Allow(ctx, "a")
	assert.False(t, ok)

	now = now.Add(31 * time.Second)
	ok, _ = limiter.Allow(ctx, "a")
	assert.True(t, ok, "one token refilled after window/limit")
}

func TestMemoryLimiter_InvalidArgsDisable(t *testing.T) {
	var limiter *MemoryLimiter = NewMemoryLimiter(0, time.Minute)
	assert.Nil(t, limiter)

	ok, err := limiter.Allow(context.Background(), "a")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestUnlimited(t *testing.T) {
	ok, err := Unlimited{}.Allow(context.Background(), "x")
	assert.NoError(t, err)
	assert.True(t, ok)
}
