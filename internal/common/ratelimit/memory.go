package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter applies a token bucket per key and periodically evicts idle entries.
// Limits are per process.
type MemoryLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu    sync.Mutex
	byKey map[string]*entry
	hits  uint64
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter allows limit requests per window, refilled evenly.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit <= 0 || window <= 0 {
		return nil
	}
	return &MemoryLimiter{
		limit:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		idleTTL: 2 * window,
		now:     time.Now,
		byKey:   make(map[string]*entry),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	if l == nil {
		return true, nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return true, nil
	}

	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byKey[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-l.idleTTL)
		for k, v := range l.byKey {
			if v.lastSeen.Before(cutoff) {
				delete(l.byKey, k)
			}
		}
	}

	return allowed, nil
}
