package telemetry

import (
	"context"
	"testing"
	"time"
)

func newTestRecorder(t *testing.T, cfg Config) *Recorder {
	t.Helper()
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestRecordAndMetrics(t *testing.T) {
	r := newTestRecorder(t, Config{LatencyBudget: time.Second})
	ctx := context.Background()

	// 10 requests: 8 successes, 2 failures, avg latency 500ms.
	for i := 0; i < 8; i++ {
		r.Record(ctx, Sample{Task: "explain", Success: true, LatencyMS: 500})
	}
	for i := 0; i < 2; i++ {
		r.Record(ctx, Sample{Task: "explain", Success: false, LatencyMS: 500})
	}

	rep := r.Metrics(PeriodMinute)
	if rep.Requests.Total != 10 {
		t.Errorf("Total = %d, want 10", rep.Requests.Total)
	}
	if rep.Requests.Success != 8 || rep.Requests.Failure != 2 {
		t.Errorf("Success/Failure = %d/%d, want 8/2", rep.Requests.Success, rep.Requests.Failure)
	}
	if rep.Latency.AvgMS != 500 {
		t.Errorf("AvgMS = %v, want 500", rep.Latency.AvgMS)
	}
	if rep.Latency.MaxMS != 500 {
		t.Errorf("MaxMS = %v, want 500", rep.Latency.MaxMS)
	}

	// score = 100 - 50*0.2 - 30*0.5 - 0 = 80
	if rep.Health.Score != 80 {
		t.Errorf("Score = %v, want 80", rep.Health.Score)
	}
	if rep.Health.Status != StatusDegraded {
		t.Errorf("Status = %q, want degraded", rep.Health.Status)
	}
}

func TestCacheHitRate(t *testing.T) {
	r := newTestRecorder(t, Config{})
	ctx := context.Background()

	r.Record(ctx, Sample{Task: "explain", Success: true, CacheHit: true, LatencyMS: 2})
	r.Record(ctx, Sample{Task: "explain", Success: true, LatencyMS: 400})

	rep := r.Metrics(PeriodMinute)
	if rep.CacheHitRate != 0.5 {
		t.Errorf("CacheHitRate = %v, want 0.5", rep.CacheHitRate)
	}
}

func TestRateLimitPressureLowersScore(t *testing.T) {
	r := newTestRecorder(t, Config{LatencyBudget: time.Second})
	ctx := context.Background()

	r.Record(ctx, Sample{Task: "explain", Success: true, LatencyMS: 0})
	base := r.Metrics(PeriodMinute).Health.Score

	r.Record(ctx, Sample{Task: "explain", Success: false, RateLimited: true, LatencyMS: 0})
	pressured := r.Metrics(PeriodMinute).Health.Score

	if pressured >= base {
		t.Errorf("score %v with rate-limit pressure, want below %v", pressured, base)
	}
}

func TestMetricsEmptyRecorder(t *testing.T) {
	r := newTestRecorder(t, Config{})

	rep := r.Metrics(PeriodHour)
	if rep.Requests.Total != 0 {
		t.Errorf("Total = %d, want 0", rep.Requests.Total)
	}
	if rep.Health.Score != 100 {
		t.Errorf("Score = %v, want 100 for an idle gateway", rep.Health.Score)
	}
	if rep.Health.Status != StatusHealthy {
		t.Errorf("Status = %q, want healthy", rep.Health.Status)
	}
}

func TestWindowsRollOver(t *testing.T) {
	r := newTestRecorder(t, Config{RetainMinutes: 60})
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC)
	now := base
	r.SetClock(func() time.Time { return now })

	r.Record(ctx, Sample{Task: "explain", Success: true, LatencyMS: 100})
	now = base.Add(time.Minute)
	r.Record(ctx, Sample{Task: "explain", Success: true, LatencyMS: 100})

	r.mu.Lock()
	minuteBuckets := len(r.windows[PeriodMinute])
	hourBuckets := len(r.windows[PeriodHour])
	r.mu.Unlock()

	if minuteBuckets != 2 {
		t.Errorf("minute buckets = %d, want 2", minuteBuckets)
	}
	if hourBuckets != 1 {
		t.Errorf("hour buckets = %d, want 1", hourBuckets)
	}

	// both minutes still visible in the aggregate
	if got := r.Metrics(PeriodMinute).Requests.Total; got != 2 {
		t.Errorf("Total = %d, want 2", got)
	}
}

func TestRetentionEvictsOldWindows(t *testing.T) {
	r := newTestRecorder(t, Config{RetainMinutes: 2})
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	r.SetClock(func() time.Time { return now })

	r.Record(ctx, Sample{Task: "explain", Success: false, LatencyMS: 100})
	now = base.Add(5 * time.Minute)
	r.Record(ctx, Sample{Task: "explain", Success: true, LatencyMS: 100})

	rep := r.Metrics(PeriodMinute)
	if rep.Requests.Total != 1 {
		t.Errorf("Total = %d, want 1 after eviction", rep.Requests.Total)
	}
	if rep.Requests.Failure != 0 {
		t.Errorf("Failure = %d, want evicted failure gone", rep.Requests.Failure)
	}
}

func TestLatencySpikeAlert(t *testing.T) {
	r := newTestRecorder(t, Config{AlertLatency: 100 * time.Millisecond})
	ctx := context.Background()

	r.Record(ctx, Sample{Task: "explain", Success: true, LatencyMS: 50})
	r.Record(ctx, Sample{Task: "summarize", Success: true, LatencyMS: 5000})

	alerts := r.Alerts()
	if len(alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(alerts))
	}
	a := alerts[0]
	if a.Kind != "latency_spike" {
		t.Errorf("Kind = %q, want latency_spike", a.Kind)
	}
	if a.Task != "summarize" {
		t.Errorf("Task = %q, want summarize", a.Task)
	}
	if a.Value != 5000 || a.Threshold != 100 {
		t.Errorf("Value/Threshold = %v/%v, want 5000/100", a.Value, a.Threshold)
	}
}

func TestErrorRateAlertFiresOncePerWindow(t *testing.T) {
	r := newTestRecorder(t, Config{AlertErrorRate: 0.5, AlertLatency: time.Hour})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		r.Record(ctx, Sample{Task: "explain", Success: false, LatencyMS: 10})
	}

	var errorAlerts int
	for _, a := range r.Alerts() {
		if a.Kind == "error_rate" {
			errorAlerts++
		}
	}
	if errorAlerts != 1 {
		t.Errorf("error_rate alerts = %d, want 1", errorAlerts)
	}
}

func TestScoreMonotonicity(t *testing.T) {
	// non-increasing in error rate
	for rate := 0.0; rate < 1.0; rate += 0.1 {
		if Score(rate+0.1, 200, 1000, 0) > Score(rate, 200, 1000, 0) {
			t.Errorf("score increased as error rate rose past %v", rate)
		}
	}
	// non-increasing in average latency
	for lat := 0.0; lat < 2000; lat += 100 {
		if Score(0.1, lat+100, 1000, 0) > Score(0.1, lat, 1000, 0) {
			t.Errorf("score increased as latency rose past %v", lat)
		}
	}
}

func TestScoreClamped(t *testing.T) {
	if got := Score(1.0, 10000, 1000, 1.0); got != 0 {
		t.Errorf("Score = %v, want 0", got)
	}
	if got := Score(0, 0, 1000, 0); got != 100 {
		t.Errorf("Score = %v, want 100", got)
	}
}

func TestStatusBands(t *testing.T) {
	tests := []struct {
		score float64
		want  Status
	}{
		{100, StatusHealthy},
		{90, StatusHealthy},
		{89.9, StatusDegraded},
		{70, StatusDegraded},
		{69.9, StatusWarning},
		{50, StatusWarning},
		{49.9, StatusCritical},
		{0, StatusCritical},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.score); got != tt.want {
			t.Errorf("StatusFor(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestAlertsCapped(t *testing.T) {
	r := newTestRecorder(t, Config{AlertLatency: time.Millisecond})
	ctx := context.Background()

	for i := 0; i < maxAlerts+50; i++ {
		r.Record(ctx, Sample{Task: "explain", Success: true, LatencyMS: 10})
	}
	if got := len(r.Alerts()); got != maxAlerts {
		t.Errorf("alerts retained = %d, want %d", got, maxAlerts)
	}
}
