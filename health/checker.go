package health

import (
	"context"
	"time"
)

// Status is the outcome of a health check.
type Status int

const (
	// StatusHealthy means the component is fully operational.
	StatusHealthy Status = iota

	// StatusDegraded means the component works but below expectations.
	// Probes still report ready.
	StatusDegraded

	// StatusUnhealthy means the component is not operational.
	StatusUnhealthy
)

// String returns the wire form of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	}
	return "unknown"
}

// Result is one check outcome.
type Result struct {
	Status  Status
	Message string

	// Error carries the underlying failure for unhealthy results.
	Error error

	// Details are optional structured facts about the component.
	Details map[string]any

	// Duration is how long the check took.
	Duration time.Duration
}

// Healthy builds a healthy result.
func Healthy(message string) Result {
	return Result{Status: StatusHealthy, Message: message}
}

// Degraded builds a degraded result.
func Degraded(message string) Result {
	return Result{Status: StatusDegraded, Message: message}
}

// Unhealthy builds an unhealthy result. err may be nil.
func Unhealthy(message string, err error) Result {
	return Result{Status: StatusUnhealthy, Message: message, Error: err}
}

// WithDetails attaches structured details and returns the result.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// WithDuration records how long the check took and returns the result.
func (r Result) WithDuration(d time.Duration) Result {
	r.Duration = d
	return r
}

// Checker probes one component.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Check must honor cancellation and return promptly.
// - Errors: failures are reported through the Result, never by panicking.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc struct {
	name string
	fn   func(ctx context.Context) Result
}

// NewCheckerFunc wraps fn as a named checker.
func NewCheckerFunc(name string, fn func(ctx context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

// Name returns the checker name.
func (c *CheckerFunc) Name() string { return c.name }

// Check runs the wrapped function.
func (c *CheckerFunc) Check(ctx context.Context) Result { return c.fn(ctx) }

var _ Checker = (*CheckerFunc)(nil)
