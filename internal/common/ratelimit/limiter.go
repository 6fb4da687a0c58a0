// Package ratelimit throttles submissions per client key.
package ratelimit

import "context"

// Limiter reports whether one more request for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Unlimited allows everything; used when rate limiting is disabled.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (bool, error) { return true, nil }
