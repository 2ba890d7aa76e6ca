package ports

import (
	"context"
	"time"
)

// Clock provides the current time (for testing).
type Clock interface {
	Now() time.Time
}

// Logger provides structured logging.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// RateLimiter checks whether a request is allowed under rate limits.
type RateLimiter interface {
	// Allow checks if a request identified by key is within the rate limit.
	Allow(ctx context.Context, key string) bool
}
