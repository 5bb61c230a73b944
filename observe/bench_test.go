package observe

import (
	"context"
	"io"
	"testing"
	"time"
)

// BenchmarkLogger_Info measures logging throughput.
func BenchmarkLogger_Info(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "benchmark message", Field{Key: "iteration", Value: i})
	}
}

// BenchmarkLogger_WithRequest measures creating request-scoped loggers.
func BenchmarkLogger_WithRequest(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	meta := RequestMeta{
		Task:      "explain",
		Actor:     "a-42",
		RequestID: "req-001",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = logger.WithRequest(meta)
	}
}

// BenchmarkLogger_LevelFiltering measures overhead of level filtering.
func BenchmarkLogger_LevelFiltering(b *testing.B) {
	logger := NewLoggerWithWriter("error", io.Discard) // Only error level
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// These should be filtered out (no actual logging)
		logger.Debug(ctx, "filtered debug")
		logger.Info(ctx, "filtered info")
	}
}

// BenchmarkMiddleware_Wrap measures the full instrumentation overhead with
// noop backends.
func BenchmarkMiddleware_Wrap(b *testing.B) {
	mw := NewMiddleware(newNoopTracer(), &noopMetrics{}, &noopLogger{})
	meta := RequestMeta{Task: "explain"}

	fn := mw.Wrap(func(ctx context.Context, meta RequestMeta, in any) (any, error) {
		return nil, nil
	})

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = fn(ctx, meta, nil)
	}
}

// BenchmarkMetrics_RecordCall measures metric recording cost.
func BenchmarkMetrics_RecordCall(b *testing.B) {
	m := &noopMetrics{}
	meta := RequestMeta{Task: "explain"}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordCall(ctx, meta, 10*time.Millisecond, nil)
	}
}
