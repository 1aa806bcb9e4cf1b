package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable marks a store call that timed out or could not reach the
// database. It is the only failure class callers may retry, and only for
// reads; a timed-out write may have partially succeeded.
var ErrUnavailable = errors.New("store unavailable")

// defaultStoreTimeout bounds every store call when no override is configured.
const defaultStoreTimeout = 5 * time.Second

func boundCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// classifyStoreError converts deadline and cancellation failures into
// ErrUnavailable so callers can tell a retryable outage from a definitive
// rejection. Other errors pass through unchanged.
func classifyStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
