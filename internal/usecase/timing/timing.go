// Package timing holds the cancellable waits used between fill stages.
package timing

import (
	"context"
	"time"
)

// SleepFunc waits for d or until ctx is done. Components take one so tests can
// drive time deterministically.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoSleep returns immediately unless ctx is already done.
func NoSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
