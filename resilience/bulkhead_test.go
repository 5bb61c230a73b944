package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBulkheadAllowsUpToLimit(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 2})
	ctx := context.Background()

	release := make(chan struct{})
	var wg sync.WaitGroup
	var started sync.WaitGroup
	started.Add(2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Execute(ctx, func(ctx context.Context) error {
				started.Done()
				<-release
				return nil
			})
		}()
	}
	started.Wait()

	if got := b.InFlight(); got != 2 {
		t.Errorf("InFlight() = %d, want 2", got)
	}
	if err := b.Execute(ctx, func(ctx context.Context) error { return nil }); !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("Execute() error = %v, want ErrBulkheadFull", err)
	}

	close(release)
	wg.Wait()

	if err := b.Execute(ctx, func(ctx context.Context) error { return nil }); err != nil {
		t.Errorf("Execute() after release error = %v", err)
	}
}

func TestBulkheadWaitsForSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: time.Second})
	ctx := context.Background()

	started := make(chan struct{})
	go func() {
		_ = b.Execute(ctx, func(ctx context.Context) error {
			close(started)
			time.Sleep(20 * time.Millisecond)
			return nil
		})
	}()
	<-started

	calls := 0
	err := b.Execute(ctx, func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Execute() error = %v, want slot after wait", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBulkheadWaitTimesOut(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: 10 * time.Millisecond})
	ctx := context.Background()

	release := make(chan struct{})
	defer close(release)
	started := make(chan struct{})
	go func() {
		_ = b.Execute(ctx, func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	if err := b.Execute(ctx, func(ctx context.Context) error { return nil }); !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("Execute() error = %v, want ErrBulkheadFull", err)
	}
}

func TestBulkheadContextCancelledWhileWaiting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: time.Minute})

	release := make(chan struct{})
	defer close(release)
	started := make(chan struct{})
	go func() {
		_ = b.Execute(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	if err := b.Execute(ctx, func(ctx context.Context) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestBulkheadConcurrencyNeverExceedsLimit(t *testing.T) {
	const limit = 4
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: limit, MaxWait: time.Second})

	var inFlight, peak atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Execute(context.Background(), func(ctx context.Context) error {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				inFlight.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	if got := peak.Load(); got > limit {
		t.Errorf("peak concurrency = %d, want <= %d", got, limit)
	}
}
