package store

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps backend failures so callers can apply their
// configured fail-open/fail-closed policy.
var ErrUnavailable = errors.New("store: shared store unavailable")

// Counter is an atomic windowed counter.
//
// Contract:
// - Concurrency: Incr must be linearizable per key; concurrent callers on the
//   same key observe every prior increment.
// - Atomicity: Incr is one round trip — never a read followed by a write.
type Counter interface {
	// Incr increments key by one, arming the expiry on the window's first
	// write, and returns the post-increment count.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)

	// Peek returns the current count without mutating it. Missing keys
	// read as zero.
	Peek(ctx context.Context, key string) (int64, error)
}

// KV stores opaque values with a TTL.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Get returns (nil, false, nil) on miss.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Epochs tracks monotonically increasing version numbers by name.
//
// Contract:
// - Monotonicity: Advance never returns a value lower than a prior Current.
// - Atomicity: Advance is a single atomic increment.
type Epochs interface {
	// Current returns the epoch for name; names never advanced read as zero.
	Current(ctx context.Context, name string) (uint64, error)

	// Advance increments the epoch and returns the new value.
	Advance(ctx context.Context, name string) (uint64, error)
}

// Store combines the three shared-state facets the gateway needs.
type Store interface {
	Counter
	KV
	Epochs
}
