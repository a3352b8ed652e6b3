package ports

import (
	"context"
	"time"
)

// LoginLimiter throttles login attempts per key (client IP).
type LoginLimiter interface {
	// Allow records one attempt and reports whether it is within budget. When
	// it is not, retryAfter tells the client how long to wait.
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}
