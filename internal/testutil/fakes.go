package testutil

import (
	"context"
	"time"

	"github.com/sophialabs/inkwell/internal/domain/debug"
	"github.com/sophialabs/inkwell/internal/infrastructure/ports"
)

var _ ports.Logger = (*NoopLogger)(nil)

// NoopLogger discards all log output.
type NoopLogger struct{}

func (l *NoopLogger) Info(string, ...any)  {}
func (l *NoopLogger) Warn(string, ...any)  {}
func (l *NoopLogger) Error(string, ...any) {}
func (l *NoopLogger) Debug(string, ...any) {}

var _ ports.Clock = (*FixedClock)(nil)

// FixedClock returns a fixed time.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

var _ ports.RateLimiter = (*StubRateLimiter)(nil)

// StubRateLimiter returns a configurable Allow result.
type StubRateLimiter struct {
	AllowAll bool
}

func (r *StubRateLimiter) Allow(context.Context, string) bool {
	return r.AllowAll
}

var _ debug.KeyValidator = (*StubKeyValidator)(nil)

// StubKeyValidator returns a configurable validation result and records the
// last key it saw.
type StubKeyValidator struct {
	Info    *debug.APIKeyInfo
	Err     error
	LastKey string
}

func (v *StubKeyValidator) Validate(_ context.Context, key string) (*debug.APIKeyInfo, error) {
	v.LastKey = key
	return v.Info, v.Err
}
