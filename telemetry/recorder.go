package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Period selects the window granularity for metric reports.
type Period int

const (
	PeriodMinute Period = iota
	PeriodHour
	PeriodDay
)

// String returns the wire form of the period.
func (p Period) String() string {
	switch p {
	case PeriodHour:
		return "hour"
	case PeriodDay:
		return "day"
	default:
		return "minute"
	}
}

// seconds returns the window size for the period.
func (p Period) seconds() int64 {
	switch p {
	case PeriodHour:
		return 3600
	case PeriodDay:
		return 86400
	default:
		return 60
	}
}

// Sample is one terminal request outcome.
type Sample struct {
	Task      string
	Success   bool
	LatencyMS int64
	CacheHit  bool

	// RateLimited marks a request rejected by admission control.
	RateLimited bool
}

// Config configures the recorder.
type Config struct {
	// LatencyBudget is the average-latency budget feeding the health score.
	// Default: 1s
	LatencyBudget time.Duration

	// Retention window counts per granularity.
	// Defaults: 60 minutes, 24 hours, 7 days.
	RetainMinutes int
	RetainHours   int
	RetainDays    int

	// AlertLatency flags any single request slower than this.
	// Default: 5s
	AlertLatency time.Duration

	// AlertErrorRate flags a minute window whose error rate reaches this.
	// Default: 0.25
	AlertErrorRate float64

	// Meter optionally mirrors counters into otel instruments.
	Meter metric.Meter
}

// Alert is a threshold crossing worth operator attention.
type Alert struct {
	Kind      string // "latency_spike" | "error_rate"
	Task      string
	Value     float64
	Threshold float64
	At        time.Time
}

// window is one rolling aggregate bucket.
type window struct {
	total       int64
	success     int64
	failure     int64
	cacheHits   int64
	rateLimited int64
	sumLatency  int64
	maxLatency  int64

	alerted bool // error-rate alert already raised for this window
}

const maxAlerts = 128

// Recorder accumulates request outcomes into rolling windows.
type Recorder struct {
	config Config
	mirror *mirror

	mu      sync.Mutex
	windows map[Period]map[int64]*window
	alerts  []Alert

	now func() time.Time
}

// New creates a recorder with defaults applied. The error is non-nil only
// when a meter is configured and instrument creation fails.
func New(config Config) (*Recorder, error) {
	if config.LatencyBudget <= 0 {
		config.LatencyBudget = time.Second
	}
	if config.RetainMinutes <= 0 {
		config.RetainMinutes = 60
	}
	if config.RetainHours <= 0 {
		config.RetainHours = 24
	}
	if config.RetainDays <= 0 {
		config.RetainDays = 7
	}
	if config.AlertLatency <= 0 {
		config.AlertLatency = 5 * time.Second
	}
	if config.AlertErrorRate <= 0 {
		config.AlertErrorRate = 0.25
	}

	r := &Recorder{
		config: config,
		windows: map[Period]map[int64]*window{
			PeriodMinute: {},
			PeriodHour:   {},
			PeriodDay:    {},
		},
		now: time.Now,
	}
	if config.Meter != nil {
		m, err := newMirror(config.Meter)
		if err != nil {
			return nil, err
		}
		r.mirror = m
	}
	return r, nil
}

// SetClock overrides the time source. Test helper.
func (r *Recorder) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Record appends one outcome to the current minute, hour, and day windows.
func (r *Recorder) Record(ctx context.Context, s Sample) {
	r.mu.Lock()
	now := r.now()
	unix := now.Unix()

	for _, p := range []Period{PeriodMinute, PeriodHour, PeriodDay} {
		w := r.currentLocked(p, unix)
		w.total++
		if s.Success {
			w.success++
		} else {
			w.failure++
		}
		if s.CacheHit {
			w.cacheHits++
		}
		if s.RateLimited {
			w.rateLimited++
		}
		w.sumLatency += s.LatencyMS
		if s.LatencyMS > w.maxLatency {
			w.maxLatency = s.LatencyMS
		}
	}

	if s.LatencyMS > r.config.AlertLatency.Milliseconds() {
		r.alertLocked(Alert{
			Kind:      "latency_spike",
			Task:      s.Task,
			Value:     float64(s.LatencyMS),
			Threshold: float64(r.config.AlertLatency.Milliseconds()),
			At:        now,
		})
	}
	if w := r.windows[PeriodMinute][unix/60]; !w.alerted && w.total >= 5 {
		rate := float64(w.failure) / float64(w.total)
		if rate >= r.config.AlertErrorRate {
			w.alerted = true
			r.alertLocked(Alert{
				Kind:      "error_rate",
				Task:      s.Task,
				Value:     rate,
				Threshold: r.config.AlertErrorRate,
				At:        now,
			})
		}
	}
	r.mu.Unlock()

	if r.mirror != nil {
		r.mirror.record(ctx, s)
	}
}

// Metrics sums the retained windows of a period into a report.
func (r *Recorder) Metrics(p Period) Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sum window
	var maxLat int64
	for _, w := range r.windows[p] {
		sum.total += w.total
		sum.success += w.success
		sum.failure += w.failure
		sum.cacheHits += w.cacheHits
		sum.rateLimited += w.rateLimited
		sum.sumLatency += w.sumLatency
		if w.maxLatency > maxLat {
			maxLat = w.maxLatency
		}
	}

	rep := Report{Period: p}
	rep.Requests.Total = sum.total
	rep.Requests.Success = sum.success
	rep.Requests.Failure = sum.failure
	rep.Latency.MaxMS = maxLat

	var errorRate, avgLat, rlUtil float64
	if sum.total > 0 {
		errorRate = float64(sum.failure) / float64(sum.total)
		avgLat = float64(sum.sumLatency) / float64(sum.total)
		rlUtil = float64(sum.rateLimited) / float64(sum.total)
		rep.CacheHitRate = float64(sum.cacheHits) / float64(sum.total)
	}
	rep.Latency.AvgMS = avgLat

	score := Score(errorRate, avgLat, float64(r.config.LatencyBudget.Milliseconds()), rlUtil)
	rep.Health.Score = score
	rep.Health.Status = StatusFor(score)
	return rep
}

// Alerts returns the retained alerts, oldest first.
func (r *Recorder) Alerts() []Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Alert, len(r.alerts))
	copy(out, r.alerts)
	return out
}

// currentLocked returns the live window for the period, creating it and
// evicting expired windows as a side effect.
func (r *Recorder) currentLocked(p Period, unix int64) *window {
	size := p.seconds()
	idx := unix / size

	buckets := r.windows[p]
	w, ok := buckets[idx]
	if !ok {
		w = &window{}
		buckets[idx] = w
		oldest := idx - int64(r.retention(p)) + 1
		for k := range buckets {
			if k < oldest {
				delete(buckets, k)
			}
		}
	}
	return w
}

func (r *Recorder) retention(p Period) int {
	switch p {
	case PeriodHour:
		return r.config.RetainHours
	case PeriodDay:
		return r.config.RetainDays
	default:
		return r.config.RetainMinutes
	}
}

func (r *Recorder) alertLocked(a Alert) {
	r.alerts = append(r.alerts, a)
	if len(r.alerts) > maxAlerts {
		r.alerts = r.alerts[len(r.alerts)-maxAlerts:]
	}
}
