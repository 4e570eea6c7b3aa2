package scan

import (
	"context"
	"time"

	"k8s.io/utils/clock"
)

// Scheduler releases scan stages at fixed offsets from the scan start
type Scheduler interface {
	// WaitUntil blocks until offset has elapsed since start or ctx is done
	WaitUntil(ctx context.Context, start time.Time, offset time.Duration) error
}

// ClockScheduler waits on timers from the given clock
type ClockScheduler struct {
	Clock clock.Clock
}

// NewClockScheduler returns a scheduler on the real wall clock when clk is nil
func NewClockScheduler(clk clock.Clock) ClockScheduler {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return ClockScheduler{Clock: clk}
}

func (s ClockScheduler) WaitUntil(ctx context.Context, start time.Time, offset time.Duration) error {
	remaining := offset - s.Clock.Since(start)
	if remaining <= 0 {
		return ctx.Err()
	}

	timer := s.Clock.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C():
		return nil
	}
}

// ImmediateScheduler runs every stage back to back
type ImmediateScheduler struct{}

func (ImmediateScheduler) WaitUntil(ctx context.Context, _ time.Time, _ time.Duration) error {
	return ctx.Err()
}
