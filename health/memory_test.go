package health

import (
	"context"
	"testing"
)

func TestNewMemoryChecker_Defaults(t *testing.T) {
	tests := []struct {
		name         string
		config       MemoryCheckerConfig
		wantWarning  float64
		wantCritical float64
	}{
		{"zero config", MemoryCheckerConfig{}, 0.8, 0.95},
		{"out of range", MemoryCheckerConfig{WarningThreshold: 1.5, CriticalThreshold: -1}, 0.8, 0.95},
		{"critical below warning clamps", MemoryCheckerConfig{WarningThreshold: 0.9, CriticalThreshold: 0.5}, 0.9, 0.9},
		{"explicit", MemoryCheckerConfig{WarningThreshold: 0.6, CriticalThreshold: 0.7}, 0.6, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemoryChecker(tt.config)
			if m.config.WarningThreshold != tt.wantWarning {
				t.Errorf("warning = %v, want %v", m.config.WarningThreshold, tt.wantWarning)
			}
			if m.config.CriticalThreshold != tt.wantCritical {
				t.Errorf("critical = %v, want %v", m.config.CriticalThreshold, tt.wantCritical)
			}
		})
	}
}

func TestMemoryChecker_Check(t *testing.T) {
	m := NewMemoryChecker(MemoryCheckerConfig{})

	res := m.Check(context.Background())
	if res.Status != StatusHealthy {
		t.Errorf("status = %v (%s)", res.Status, res.Message)
	}
	if res.Details["alloc_bytes"] == nil || res.Details["usage_percent"] == nil {
		t.Errorf("details = %v", res.Details)
	}
}

func TestMemoryChecker_Thresholds(t *testing.T) {
	// A 1-byte ceiling forces usage past both thresholds.
	m := NewMemoryChecker(MemoryCheckerConfig{MaxAlloc: 1})
	if res := m.Check(context.Background()); res.Status != StatusUnhealthy {
		t.Errorf("status = %v, want unhealthy", res.Status)
	}
}

func TestMemoryChecker_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemoryChecker(MemoryCheckerConfig{})
	if res := m.Check(ctx); res.Status != StatusUnhealthy {
		t.Errorf("status = %v, want unhealthy", res.Status)
	}
}
