package health

import (
	"context"
	"fmt"
	"runtime"
)

// MemoryCheckerConfig configures the process-memory checker.
type MemoryCheckerConfig struct {
	// WarningThreshold is the heap usage ratio that reports degraded.
	// Range (0,1). Default: 0.8.
	WarningThreshold float64

	// CriticalThreshold is the heap usage ratio that reports unhealthy.
	// Range (0,1). Default: 0.95.
	CriticalThreshold float64

	// MaxAlloc is the allocation ceiling in bytes the ratios are
	// measured against. 0 uses the runtime's reserved memory.
	MaxAlloc uint64
}

// MemoryChecker reports heap pressure of the gateway process.
type MemoryChecker struct {
	config MemoryCheckerConfig
}

// NewMemoryChecker creates a memory checker, applying defaults for
// out-of-range thresholds.
func NewMemoryChecker(config MemoryCheckerConfig) *MemoryChecker {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = 0.95
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = config.WarningThreshold
	}
	return &MemoryChecker{config: config}
}

// Name returns "memory".
func (m *MemoryChecker) Name() string { return "memory" }

// Check reads runtime memory stats and grades heap usage against the
// configured thresholds.
func (m *MemoryChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	maxAlloc := m.config.MaxAlloc
	if maxAlloc == 0 {
		maxAlloc = stats.Sys
	}
	usage := float64(stats.Alloc) / float64(maxAlloc)

	details := map[string]any{
		"alloc_bytes":   stats.Alloc,
		"max_alloc":     maxAlloc,
		"usage_percent": usage * 100,
		"heap_objects":  stats.HeapObjects,
		"num_gc":        stats.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}

	switch {
	case usage >= m.config.CriticalThreshold:
		return Unhealthy(fmt.Sprintf("memory usage critical: %.1f%%", usage*100), ErrCheckFailed).
			WithDetails(details)
	case usage >= m.config.WarningThreshold:
		return Degraded(fmt.Sprintf("memory usage high: %.1f%%", usage*100)).
			WithDetails(details)
	default:
		return Healthy(fmt.Sprintf("memory usage normal: %.1f%%", usage*100)).
			WithDetails(details)
	}
}

var _ Checker = (*MemoryChecker)(nil)
