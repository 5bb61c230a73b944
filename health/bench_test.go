package health

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func BenchmarkAggregator_CheckAll(b *testing.B) {
	agg := NewAggregator()
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("c%d", i)
		agg.Register(name, healthyChecker(name))
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		agg.CheckAll(ctx)
	}
}

func BenchmarkMemoryChecker_Check(b *testing.B) {
	m := NewMemoryChecker(MemoryCheckerConfig{})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Check(ctx)
	}
}

func BenchmarkReadinessHandler(b *testing.B) {
	agg := NewAggregator()
	agg.Register("c", healthyChecker("c"))
	handler := ReadinessHandler(agg)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	}
}
