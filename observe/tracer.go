package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// RequestMeta contains metadata about one gateway request for telemetry
// purposes.
type RequestMeta struct {
	Task      string // requested capability (required)
	Actor     string // opaque caller id (optional)
	Role      string // caller role (optional)
	RequestID string // per-request id (optional)
	Provider  string // provider handling the call (optional)
}

// SpanName returns the deterministic span name for this request.
// Format: gateway.request.<task>
func (m RequestMeta) SpanName() string {
	return "gateway.request." + m.Task
}

// Tracer wraps OpenTelemetry tracing with request-scoped span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a gateway request.
	StartSpan(ctx context.Context, meta RequestMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with request metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta RequestMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("gateway.task", meta.Task),
		attribute.Bool("gateway.error", false), // updated in EndSpan if error
	}
	if meta.Actor != "" {
		attrs = append(attrs, attribute.String("gateway.actor", meta.Actor))
	}
	if meta.Role != "" {
		attrs = append(attrs, attribute.String("gateway.role", meta.Role))
	}
	if meta.RequestID != "" {
		attrs = append(attrs, attribute.String("gateway.request_id", meta.RequestID))
	}
	if meta.Provider != "" {
		attrs = append(attrs, attribute.String("gateway.provider", meta.Provider))
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("gateway.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta RequestMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
