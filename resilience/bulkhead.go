package resilience

import (
	"context"
	"time"
)

// BulkheadConfig configures the concurrency limiter.
type BulkheadConfig struct {
	// MaxConcurrent is the number of operations allowed in flight.
	// Default: 10
	MaxConcurrent int

	// MaxWait is how long a caller waits for a slot before giving up.
	// Zero means fail immediately when full.
	MaxWait time.Duration
}

// Bulkhead bounds the number of concurrent provider calls.
type Bulkhead struct {
	config BulkheadConfig
	slots  chan struct{}
}

// NewBulkhead creates a bulkhead with defaults applied.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}
	return &Bulkhead{
		config: config,
		slots:  make(chan struct{}, config.MaxConcurrent),
	}
}

// Execute runs op within a concurrency slot, returning ErrBulkheadFull
// when no slot becomes available within MaxWait.
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.acquire(ctx); err != nil {
		return err
	}
	defer b.release()
	return op(ctx)
}

// InFlight returns the number of operations currently holding a slot.
func (b *Bulkhead) InFlight() int {
	return len(b.slots)
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		return nil
	default:
	}

	if b.config.MaxWait <= 0 {
		return ErrBulkheadFull
	}

	timer := time.NewTimer(b.config.MaxWait)
	defer timer.Stop()

	select {
	case b.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBulkheadFull
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bulkhead) release() {
	<-b.slots
}
