package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// AggregatorConfig configures the checker registry.
type AggregatorConfig struct {
	// Timeout bounds each individual check. Default: 10s.
	Timeout time.Duration

	// Parallel runs checks concurrently. Default: true when no config
	// is supplied.
	Parallel bool
}

// Aggregator runs a set of named checkers and folds their results into
// an overall status for the readiness probe.
type Aggregator struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	timeout  time.Duration
	parallel bool
}

// NewAggregator creates an empty registry. An optional config overrides
// the defaults.
func NewAggregator(config ...AggregatorConfig) *Aggregator {
	cfg := AggregatorConfig{Timeout: 10 * time.Second, Parallel: true}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.Timeout <= 0 {
			cfg.Timeout = 10 * time.Second
		}
	}
	return &Aggregator{
		checkers: make(map[string]Checker),
		timeout:  cfg.Timeout,
		parallel: cfg.Parallel,
	}
}

// Register adds or replaces a checker under name.
func (a *Aggregator) Register(name string, checker Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checkers[name] = checker
}

// Unregister removes a checker. Unknown names are ignored.
func (a *Aggregator) Unregister(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.checkers, name)
}

// CheckerNames returns the registered names, sorted.
func (a *Aggregator) CheckerNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.checkers))
	for name := range a.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check runs a single checker by name.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	checker, ok := a.checkers[name]
	a.mu.RUnlock()
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrCheckerNotFound, name)
	}
	return a.runCheck(ctx, checker), nil
}

// CheckAll runs every registered checker and returns results by name.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]Result {
	a.mu.RLock()
	checkers := make(map[string]Checker, len(a.checkers))
	for name, c := range a.checkers {
		checkers[name] = c
	}
	a.mu.RUnlock()

	results := make(map[string]Result, len(checkers))
	if !a.parallel {
		for name, c := range checkers {
			results[name] = a.runCheck(ctx, c)
		}
		return results
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, c := range checkers {
		wg.Add(1)
		go func(name string, c Checker) {
			defer wg.Done()
			r := a.runCheck(ctx, c)
			mu.Lock()
			results[name] = r
			mu.Unlock()
		}(name, c)
	}
	wg.Wait()
	return results
}

// OverallStatus folds results into one status: unhealthy dominates,
// then degraded. An empty set is healthy.
func (a *Aggregator) OverallStatus(results map[string]Result) Status {
	overall := StatusHealthy
	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			overall = StatusDegraded
		}
	}
	return overall
}

// Checker exposes the aggregator itself as a single named checker, so a
// readiness group can nest inside another registry.
func (a *Aggregator) Checker() Checker {
	return &aggregatorChecker{agg: a}
}

// runCheck bounds one check by the configured timeout and converts a
// panicking checker into an unhealthy result.
func (a *Aggregator) runCheck(ctx context.Context, checker Checker) (result Result) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			result = Unhealthy("check panicked", fmt.Errorf("%w: %v", ErrCheckFailed, r))
		}
	}()

	start := time.Now()
	result = checker.Check(ctx)
	if result.Duration == 0 {
		result.Duration = time.Since(start)
	}
	return result
}

type aggregatorChecker struct {
	agg *Aggregator
}

func (c *aggregatorChecker) Name() string { return "aggregate" }

func (c *aggregatorChecker) Check(ctx context.Context) Result {
	results := c.agg.CheckAll(ctx)
	status := c.agg.OverallStatus(results)

	details := make(map[string]any, len(results))
	for name, r := range results {
		details[name] = r.Status.String()
	}

	switch status {
	case StatusHealthy:
		return Healthy("all checks passed").WithDetails(details)
	case StatusDegraded:
		return Degraded("some checks degraded").WithDetails(details)
	default:
		return Unhealthy("one or more checks failed", ErrCheckFailed).WithDetails(details)
	}
}
