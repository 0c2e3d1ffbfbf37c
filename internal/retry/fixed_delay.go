package retry

import (
	"context"
	"log/slog"
	"time"
)

// FixedDelayStrategy retries with a constant delay between attempts.
// The daemon's transient failures (query hitting a block that is not yet
// committed, keyring lock contention) clear on their own after a moment,
// so backoff buys nothing here.
type FixedDelayStrategy struct {
	maxRetries int
	delay      time.Duration
}

// NewFixedDelayStrategy creates a new FixedDelayStrategy
func NewFixedDelayStrategy(maxRetries int, delay time.Duration) *FixedDelayStrategy {
	return &FixedDelayStrategy{
		maxRetries: maxRetries,
		delay:      delay,
	}
}

// Execute runs the operation, retrying up to maxRetries times after the
// initial attempt. A Permanent error fails immediately. When every attempt
// fails, the last error is returned.
func (s *FixedDelayStrategy) Execute(ctx context.Context, operation Operation) error {
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		err := operation()
		if err == nil {
			if attempt > 0 {
				slog.Debug("Operation succeeded after retry",
					"attempt", attempt+1,
					"max_attempts", s.maxRetries+1,
				)
			}
			return nil
		}
		lastErr = err

		if IsPermanent(err) {
			slog.Error("Non-retryable error, failing immediately",
				"error", err,
				"attempt", attempt+1,
			)
			return err
		}

		if attempt >= s.maxRetries {
			break
		}

		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	slog.Warn("Operation still failing after all attempts",
		"attempts", s.maxRetries+1,
		"error", lastErr,
	)
	return lastErr
}

// Name returns the strategy name
func (s *FixedDelayStrategy) Name() string {
	return "FixedDelay"
}
