package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "builder-network:submit:"

// RedisLimiter is a fixed-window counter shared by every server instance.
type RedisLimiter struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
}

func NewRedisLimiter(client redis.Cmdable, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: int64(limit), window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" || l.limit <= 0 {
		return true, nil
	}

	redisKey := keyPrefix + key

	// EXPIRE NX on every hit restores a missing TTL without extending a live window.
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}

	return incr.Val() <= l.limit, nil
}
