package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	loginKeyPrefix = "ratelimit:login:"
	opTimeout      = 250 * time.Millisecond
)

// LoginLimiter is a fixed-window counter per key shared by every API replica.
type LoginLimiter struct {
	client redis.Cmdable
	max    int64
	window time.Duration
}

func NewLoginLimiter(client redis.Cmdable, max int, window time.Duration) *LoginLimiter {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{client: client, max: int64(max), window: window}
}

// Allow counts one attempt for key. Errors are returned together with
// allowed=true so callers can fail open.
//
// The window expiry is (re)applied whenever the counter has none, so a lost
// EXPIRE is repaired on the next attempt instead of pinning the key forever.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	redisKey := loginKeyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, 0, fmt.Errorf("rate limit incr: %w", err)
	}

	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil {
		return true, 0, fmt.Errorf("rate limit ttl: %w", err)
	}
	// -1 means no expiry, -2 that the key vanished between the two calls.
	if ttl < 0 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return true, 0, fmt.Errorf("rate limit expire: %w", err)
		}
		ttl = l.window
	}

	if count <= l.max {
		return true, 0, nil
	}
	return false, ttl, nil
}
