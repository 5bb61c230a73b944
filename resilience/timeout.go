package resilience

import (
	"context"
	"time"
)

// ExecuteWithTimeout runs op under a hard budget. The caller unblocks when
// the budget elapses even if op has not returned; op observes the
// cancellation through its context.
func ExecuteWithTimeout(ctx context.Context, budget time.Duration, op func(context.Context) error) error {
	if budget <= 0 {
		return op(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return ErrTimeout
		}
		return ctx.Err()
	}
}
