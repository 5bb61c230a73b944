package health

import (
	"context"
	"errors"
	"testing"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(ctx context.Context) error { return p.err }

func TestStoreChecker_Healthy(t *testing.T) {
	c := NewStoreChecker("redis", &stubPinger{})

	result := c.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", result.Status)
	}
	if c.Name() != "redis" {
		t.Errorf("Name() = %q, want redis", c.Name())
	}
	if _, ok := result.Details["ping_ms"]; !ok {
		t.Error("expected ping_ms detail")
	}
}

func TestStoreChecker_Unhealthy(t *testing.T) {
	pingErr := errors.New("connection refused")
	c := NewStoreChecker("redis", &stubPinger{err: pingErr})

	result := c.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", result.Status)
	}
	if !errors.Is(result.Error, pingErr) {
		t.Errorf("Error = %v, want ping error", result.Error)
	}
}

func TestScoreChecker(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		label string
		want  Status
	}{
		{"high score", 95, "healthy", StatusHealthy},
		{"boundary healthy", 70, "degraded", StatusHealthy},
		{"mid score", 60, "warning", StatusDegraded},
		{"boundary degraded", 50, "warning", StatusDegraded},
		{"low score", 30, "critical", StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewScoreChecker("gateway", func() (float64, string) {
				return tt.score, tt.label
			})

			result := c.Check(context.Background())
			if result.Status != tt.want {
				t.Errorf("Status = %v, want %v", result.Status, tt.want)
			}
			if result.Details["score"] != tt.score {
				t.Errorf("score detail = %v, want %v", result.Details["score"], tt.score)
			}
		})
	}
}

func TestScoreChecker_CancelledContext(t *testing.T) {
	c := NewScoreChecker("gateway", func() (float64, string) {
		t.Error("score func should not run after cancellation")
		return 0, ""
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := c.Check(ctx)
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", result.Status)
	}
}
