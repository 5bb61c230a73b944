package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// mirror duplicates recorded samples into otel instruments.
type mirror struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	cacheHits    metric.Int64Counter
	durationHist metric.Float64Histogram
}

func newMirror(meter metric.Meter) (*mirror, error) {
	totalCount, err := meter.Int64Counter(
		"gateway.request.total",
		metric.WithDescription("Total number of gateway requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"gateway.request.errors",
		metric.WithDescription("Total number of failed gateway requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		"gateway.request.cache_hits",
		metric.WithDescription("Gateway requests served from the response cache"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"gateway.request.duration_ms",
		metric.WithDescription("Gateway request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &mirror{
		totalCount:   totalCount,
		errorCount:   errorCount,
		cacheHits:    cacheHits,
		durationHist: durationHist,
	}, nil
}

func (m *mirror) record(ctx context.Context, s Sample) {
	opt := metric.WithAttributes(attribute.String("gateway.task", s.Task))

	m.totalCount.Add(ctx, 1, opt)
	if !s.Success {
		m.errorCount.Add(ctx, 1, opt)
	}
	if s.CacheHit {
		m.cacheHits.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(s.LatencyMS), opt)
}
