package health

import (
	"context"
	"fmt"
	"time"
)

// Pinger reports reachability of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreChecker checks reachability of the shared store backing admission
// counters and the response cache.
type StoreChecker struct {
	name    string
	pinger  Pinger
	timeout time.Duration
}

// NewStoreChecker creates a checker that pings the shared store.
func NewStoreChecker(name string, p Pinger) *StoreChecker {
	return &StoreChecker{name: name, pinger: p, timeout: 2 * time.Second}
}

// Name returns the name of this checker.
func (c *StoreChecker) Name() string {
	return c.name
}

// Check pings the store under a short timeout.
func (c *StoreChecker) Check(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	if err := c.pinger.Ping(ctx); err != nil {
		return Unhealthy("store unreachable", err).WithDuration(time.Since(start))
	}
	return Healthy("store reachable").
		WithDetails(map[string]any{"ping_ms": time.Since(start).Milliseconds()}).
		WithDuration(time.Since(start))
}

// ScoreFunc returns the gateway's current composite health score in [0,100]
// together with its status label.
type ScoreFunc func() (score float64, status string)

// ScoreChecker maps the gateway's derived health score into a check result.
type ScoreChecker struct {
	name  string
	score ScoreFunc
}

// NewScoreChecker creates a checker backed by the telemetry health score.
func NewScoreChecker(name string, fn ScoreFunc) *ScoreChecker {
	return &ScoreChecker{name: name, score: fn}
}

// Name returns the name of this checker.
func (c *ScoreChecker) Name() string {
	return c.name
}

// Check converts the score into a status: 70 and above is healthy, 50 and
// above degraded, anything lower unhealthy.
func (c *ScoreChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	score, label := c.score()
	details := map[string]any{
		"score":  score,
		"status": label,
	}

	msg := fmt.Sprintf("health score %.1f (%s)", score, label)
	switch {
	case score >= 70:
		return Healthy(msg).WithDetails(details)
	case score >= 50:
		return Degraded(msg).WithDetails(details)
	default:
		return Unhealthy(msg, ErrCheckFailed).WithDetails(details)
	}
}

var (
	_ Checker = (*StoreChecker)(nil)
	_ Checker = (*ScoreChecker)(nil)
)
