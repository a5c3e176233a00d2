package convert

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy retries a call a fixed number of times with a fixed delay between attempts
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

var DefaultRetryPolicy = RetryPolicy{
	Attempts: 5,
	Delay:    2 * time.Second,
}

type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// do calls fn until it succeeds or the attempts run out and returns the last error.
// It sleeps between attempts, never after the last one.
func (p RetryPolicy) do(ctx context.Context, logger *slog.Logger, op string, sleep sleepFunc, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		logger.Error("Drive call failed", "op", op, "attempt", attempt, "attempts", attempts, "error", err)
		if attempt >= attempts {
			return err
		}

		if err := sleep(ctx, p.Delay); err != nil {
			return err
		}
	}
}
