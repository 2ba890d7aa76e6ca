package clock

import (
	"time"

	"github.com/sophialabs/inkwell/internal/infrastructure/ports"
)

var _ ports.Clock = (*RealClock)(nil)

// RealClock implements ports.Clock using the system clock.
type RealClock struct{}

// New creates a new RealClock.
func New() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time { return time.Now() }
