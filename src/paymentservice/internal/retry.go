package internal

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	maxVendorAttempts = 3
	baseBackoff       = 100 * time.Millisecond
)

type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retryWithBackoff calls fn up to attempts times. After failed attempt n
// (1-based) it sleeps baseBackoff * 2^n, so three attempts wait 200ms then
// 400ms. The last error is returned when every attempt fails.
func retryWithBackoff[T any](ctx context.Context, attempts int, sleep sleepFunc, op string, fn func(context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)

	for attempt := 1; attempt <= attempts; attempt++ {
		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		delay := baseBackoff * time.Duration(1<<attempt)
		slog.Warn("retrying", "op", op, "attempt", attempt, "delay", delay, "err", err)

		if err := sleep(ctx, delay); err != nil {
			return zero, fmt.Errorf("%s: %w", op, err)
		}
	}

	return zero, fmt.Errorf("%s failed after %d attempts: %w", op, attempts, lastErr)
}
