package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/curamesh/aigateway/actor"
	"github.com/curamesh/aigateway/admission"
	"github.com/curamesh/aigateway/classify"
	"github.com/curamesh/aigateway/config"
	"github.com/curamesh/aigateway/observe"
	"github.com/curamesh/aigateway/provider"
	"github.com/curamesh/aigateway/resilience"
	"github.com/curamesh/aigateway/respcache"
	"github.com/curamesh/aigateway/store"
	"github.com/curamesh/aigateway/telemetry"
)

// Validator inspects successful provider responses before they are
// returned and cached. Implementations flag responses that a downstream
// safety layer rewrote or rejected so they never enter the cache.
//
// Contract:
// - Concurrency: must be safe for concurrent use.
// - Determinism: flags depend only on the task and payload.
type Validator interface {
	Assess(task string, data json.RawMessage) respcache.PutFlags
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithFallback installs a secondary provider used when classification
// recommends a fallback. Responses it produces are marked degraded and
// never cached.
func WithFallback(p provider.Provider) Option {
	return func(g *Gateway) { g.fallback = p }
}

// WithValidator installs a response validator.
func WithValidator(v Validator) Option {
	return func(g *Gateway) { g.validator = v }
}

// WithClassifier replaces the default failure classifier.
func WithClassifier(cl *classify.Classifier) Option {
	return func(g *Gateway) { g.classifier = cl }
}

// WithObserver wires structured logging, tracing, and call metrics.
func WithObserver(obs observe.Observer) Option {
	return func(g *Gateway) { g.observer = obs }
}

// Gateway runs the request pipeline. Construct with New; the zero value
// is not usable.
type Gateway struct {
	cfg      *config.Config
	primary  provider.Provider
	fallback provider.Provider

	admission  *admission.Controller
	cache      *respcache.Cache
	classifier *classify.Classifier
	recorder   *telemetry.Recorder
	breaker    *resilience.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	validator  Validator

	observer observe.Observer
	logger   observe.Logger
	mw       *observe.Middleware

	flights singleflight.Group
	now     func() time.Time
}

// New builds a Gateway from a validated configuration, a primary
// provider, and a shared store. The store backs admission counters,
// cache entries, and invalidation epochs.
func New(cfg *config.Config, primary provider.Provider, st store.Store, opts ...Option) (*Gateway, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if primary == nil {
		return nil, ErrNilProvider
	}
	if st == nil {
		return nil, ErrNilStore
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("gateway: invalid config: %w", err)
	}

	g := &Gateway{
		cfg:       cfg,
		primary:   primary,
		admission: admission.New(st, cfg),
		cache:     respcache.New(st, st, cfg),
		logger:    observe.NopLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.classifier == nil {
		g.classifier = classify.New()
	}
	if g.observer != nil {
		g.logger = g.observer.Logger()
		mw, err := observe.MiddlewareFromObserver(g.observer)
		if err != nil {
			return nil, fmt.Errorf("gateway: observer middleware: %w", err)
		}
		g.mw = mw
	}

	tcfg := telemetry.Config{
		LatencyBudget:  time.Duration(cfg.Telemetry.LatencyBudgetMS) * time.Millisecond,
		RetainMinutes:  cfg.Telemetry.RetainMinutes,
		RetainHours:    cfg.Telemetry.RetainHours,
		RetainDays:     cfg.Telemetry.RetainDays,
		AlertLatency:   time.Duration(cfg.Telemetry.AlertLatencyMS) * time.Millisecond,
		AlertErrorRate: cfg.Telemetry.AlertErrorRate,
	}
	if g.observer != nil {
		tcfg.Meter = g.observer.Meter()
	}
	rec, err := telemetry.New(tcfg)
	if err != nil {
		return nil, fmt.Errorf("gateway: telemetry: %w", err)
	}
	g.recorder = rec

	if cfg.Provider.Breaker.MaxFailures > 0 {
		g.breaker = resilience.NewCircuitBreaker(resilience.CircuitConfig{
			MaxFailures:  cfg.Provider.Breaker.MaxFailures,
			ResetTimeout: time.Duration(cfg.Provider.Breaker.ResetSeconds) * time.Second,
		})
	}
	if cfg.Provider.MaxConcurrent > 0 {
		g.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: cfg.Provider.MaxConcurrent,
		})
	}
	return g, nil
}

// SetClock overrides the time source. Test hook.
func (g *Gateway) SetClock(now func() time.Time) {
	g.now = now
	g.admission.SetClock(now)
	g.cache.SetClock(now)
	g.recorder.SetClock(now)
}

// Telemetry exposes the recorder for dashboards and health checks.
func (g *Gateway) Telemetry() *telemetry.Recorder { return g.recorder }

// Cache exposes the response cache for administrative invalidation.
func (g *Gateway) Cache() *respcache.Cache { return g.cache }

// Process handles one request end to end and always returns a terminal
// outcome. Provider errors never surface raw; they are classified and
// reduced to a safe user message.
func (g *Gateway) Process(ctx context.Context, id actor.Identity, task string, taskCtx map[string]any) Outcome {
	start := g.now()
	meta := observe.RequestMeta{
		Task:      task,
		Actor:     id.ID,
		Role:      string(id.Role),
		RequestID: uuid.NewString(),
		Provider:  g.primary.Name(),
	}
	log := g.logger.WithRequest(meta)

	if id.IsZero() || task == "" {
		c := g.classifier.Classify(&provider.ConfigurationError{Detail: "missing actor or task"})
		return g.fail(ctx, meta, start, &c)
	}

	// Cache before admission: a hit must not consume rate-limit budget.
	if entry, ok, err := g.cache.Get(ctx, task, taskCtx); err == nil && ok {
		log.Debug(ctx, "cache hit")
		g.record(ctx, task, telemetry.Sample{Success: true, CacheHit: true}, start)
		return Outcome{
			Status: StatusSuccess,
			Data:   entry.Data,
			Meta:   g.meta(meta, start, Metadata{FromCache: true}),
		}
	} else if err != nil {
		log.Warn(ctx, "cache lookup failed", observe.Field{Key: "error", Value: err.Error()})
	}

	dec, err := g.admission.Check(ctx, id, task)
	if err != nil {
		log.Warn(ctx, "admission store degraded", observe.Field{Key: "error", Value: err.Error()})
	}
	if !dec.Allowed {
		reason := "rate_limited"
		if err != nil {
			reason = "store_unavailable"
		}
		log.Info(ctx, "request rejected",
			observe.Field{Key: "reason", Value: reason},
			observe.Field{Key: "retry_after_s", Value: dec.RetryAfterSeconds()})
		g.record(ctx, task, telemetry.Sample{RateLimited: true}, start)
		return Outcome{
			Status:            StatusRejected,
			Reason:            reason,
			RetryAfterSeconds: dec.RetryAfterSeconds(),
			Meta:              g.meta(meta, start, Metadata{}),
		}
	}

	data, err := g.invoke(ctx, meta, task, taskCtx)
	if err == nil {
		g.record(ctx, task, telemetry.Sample{Success: true}, start)
		return Outcome{
			Status: StatusSuccess,
			Data:   data,
			Meta:   g.meta(meta, start, Metadata{Provider: g.primary.Name()}),
		}
	}

	c := g.classifier.Classify(err)
	log.Error(ctx, "provider call exhausted",
		observe.Field{Key: "category", Value: c.Category.String()},
		observe.Field{Key: "severity", Value: c.Severity.String()},
		observe.Field{Key: "strategy", Value: c.Strategy.String()},
		observe.Field{Key: "error", Value: err.Error()},
	)

	switch c.Strategy {
	case classify.StrategyFallback:
		if out, ok := g.tryFallback(ctx, meta, task, taskCtx, start); ok {
			return out
		}
	case classify.StrategyCacheStale:
		if out, ok := g.tryStale(ctx, meta, task, taskCtx, start); ok {
			return out
		}
	}
	return g.fail(ctx, meta, start, &c)
}

// invoke runs the primary provider call, deduplicating identical
// concurrent requests so only one reaches the provider.
func (g *Gateway) invoke(ctx context.Context, meta observe.RequestMeta, task string, taskCtx map[string]any) (json.RawMessage, error) {
	key, err := g.cache.Keyer().FlightKey(task, taskCtx)
	if err != nil {
		return g.flight(ctx, meta, task, taskCtx)
	}

	// The flight runs detached from the first caller's context: if that
	// caller gives up, followers sharing the flight still get a result
	// and the cache still gets populated.
	ch := g.flights.DoChan(key, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		data, ferr := g.flight(fctx, meta, task, taskCtx)
		if ferr != nil {
			return nil, ferr
		}
		if perr := g.cache.Put(fctx, task, taskCtx, data, g.putFlags(task, data)); perr != nil {
			g.logger.WithRequest(meta).Warn(fctx, "cache write failed",
				observe.Field{Key: "error", Value: perr.Error()})
		}
		return data, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// flight is the bounded provider call: bulkhead, then retry, with each
// attempt passing through the breaker under a hard timeout.
func (g *Gateway) flight(ctx context.Context, meta observe.RequestMeta, task string, taskCtx map[string]any) (json.RawMessage, error) {
	policy := g.cfg.PolicyFor(task)
	retry := resilience.NewRetry(resilience.RetryConfig{
		MaxAttempts: policy.MaxRetries + 1,
		RetryIf: func(err error) bool {
			return g.classifier.Classify(err).Strategy == classify.StrategyRetry
		},
		OnRetry: func(attempt int, err error, _ time.Duration) {
			g.logger.WithRequest(meta).Warn(ctx, "retrying provider call",
				observe.Field{Key: "attempt", Value: attempt},
				observe.Field{Key: "error", Value: err.Error()})
		},
	})

	var data json.RawMessage
	attempt := func(ctx context.Context) error {
		return resilience.ExecuteWithTimeout(ctx, g.cfg.Provider.Timeout(), func(ctx context.Context) error {
			res, err := g.call(ctx, g.primary, meta, task, taskCtx)
			if err != nil {
				return err
			}
			data = res
			return nil
		})
	}
	op := func(ctx context.Context) error {
		return retry.Execute(ctx, func(ctx context.Context) error {
			if g.breaker != nil {
				return g.breaker.Execute(ctx, attempt)
			}
			return attempt(ctx)
		})
	}

	var err error
	if g.bulkhead != nil {
		err = g.bulkhead.Execute(ctx, op)
	} else {
		err = op(ctx)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// call performs one provider invocation, instrumented when an observer
// is wired.
func (g *Gateway) call(ctx context.Context, p provider.Provider, meta observe.RequestMeta, task string, taskCtx map[string]any) (json.RawMessage, error) {
	fn := func(ctx context.Context, m observe.RequestMeta, _ any) (any, error) {
		res, err := p.Invoke(ctx, task, taskCtx, provider.Options{})
		if err != nil {
			return nil, err
		}
		return res.Data, nil
	}
	if g.mw != nil {
		fn = g.mw.Wrap(fn)
	}
	out, err := fn(ctx, meta, taskCtx)
	if err != nil {
		return nil, err
	}
	return out.(json.RawMessage), nil
}

// tryFallback makes a single attempt against the fallback provider.
// Fallback responses are degraded and must not enter the cache.
func (g *Gateway) tryFallback(ctx context.Context, meta observe.RequestMeta, task string, taskCtx map[string]any, start time.Time) (Outcome, bool) {
	if g.fallback == nil {
		return Outcome{}, false
	}
	fmeta := meta
	fmeta.Provider = g.fallback.Name()
	data, err := g.call(ctx, g.fallback, fmeta, task, taskCtx)
	if err != nil {
		g.logger.WithRequest(fmeta).Warn(ctx, "fallback provider failed",
			observe.Field{Key: "error", Value: err.Error()})
		return Outcome{}, false
	}
	g.logger.WithRequest(fmeta).Info(ctx, "served by fallback provider")
	g.record(ctx, task, telemetry.Sample{Success: true}, start)
	return Outcome{
		Status: StatusSuccess,
		Data:   data,
		Meta:   g.meta(fmeta, start, Metadata{Degraded: true, Provider: g.fallback.Name()}),
	}, true
}

// tryStale serves a cached entry past its freshness TTL when the
// provider is unavailable.
func (g *Gateway) tryStale(ctx context.Context, meta observe.RequestMeta, task string, taskCtx map[string]any, start time.Time) (Outcome, bool) {
	entry, ok, err := g.cache.GetStale(ctx, task, taskCtx)
	if err != nil || !ok {
		return Outcome{}, false
	}
	g.logger.WithRequest(meta).Info(ctx, "served stale cache entry",
		observe.Field{Key: "age_s", Value: int(entry.Age(g.now()).Seconds())})
	g.record(ctx, task, telemetry.Sample{Success: true, CacheHit: true}, start)
	return Outcome{
		Status: StatusSuccess,
		Data:   entry.Data,
		Meta:   g.meta(meta, start, Metadata{FromCache: true, Stale: true}),
	}, true
}

func (g *Gateway) fail(ctx context.Context, meta observe.RequestMeta, start time.Time, c *classify.Classification) Outcome {
	g.record(ctx, meta.Task, telemetry.Sample{}, start)
	return Outcome{
		Status:  StatusFailed,
		Reason:  c.Category.String(),
		Failure: c,
		Meta:    g.meta(meta, start, Metadata{}),
	}
}

func (g *Gateway) putFlags(task string, data json.RawMessage) respcache.PutFlags {
	if g.validator == nil {
		return respcache.PutFlags{}
	}
	return g.validator.Assess(task, data)
}

func (g *Gateway) record(ctx context.Context, task string, s telemetry.Sample, start time.Time) {
	s.Task = task
	s.LatencyMS = g.now().Sub(start).Milliseconds()
	g.recorder.Record(ctx, s)
}

func (g *Gateway) meta(meta observe.RequestMeta, start time.Time, m Metadata) Metadata {
	m.RequestID = meta.RequestID
	m.LatencyMS = g.now().Sub(start).Milliseconds()
	return m
}
