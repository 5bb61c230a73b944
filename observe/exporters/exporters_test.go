package exporters

import (
	"context"
	"strings"
	"testing"
)

func TestNewTracingExporter(t *testing.T) {
	tests := []struct {
		name    string
		wantErr string
	}{
		{"stdout", ""},
		{"none", ""},
		{"", ""},
		{"invalid", "unknown trace exporter"},
	}
	for _, tt := range tests {
		t.Run("name="+tt.name, func(t *testing.T) {
			exp, err := NewTracingExporter(context.Background(), tt.name)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if exp == nil {
					t.Fatal("nil exporter")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewTracingExporter_OTLPEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	if _, err := NewTracingExporter(context.Background(), "otlp"); err == nil {
		t.Fatal("expected error without an OTLP endpoint")
	}

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4317")
	exp, err := NewTracingExporter(context.Background(), "otlp")
	if err != nil {
		t.Fatalf("with endpoint: %v", err)
	}
	if exp == nil {
		t.Fatal("nil exporter")
	}
}

func TestNewTracingExporter_JaegerEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_JAEGER_ENDPOINT", "")
	if _, err := NewTracingExporter(context.Background(), "jaeger"); err == nil {
		t.Fatal("expected error without a Jaeger endpoint")
	}
}

func TestNewMetricsReader(t *testing.T) {
	tests := []struct {
		name    string
		wantErr string
	}{
		{"stdout", ""},
		{"prometheus", ""},
		{"none", ""},
		{"", ""},
		{"badvalue", "unknown metrics exporter"},
	}
	for _, tt := range tests {
		t.Run("name="+tt.name, func(t *testing.T) {
			reader, err := NewMetricsReader(context.Background(), tt.name)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if reader == nil {
					t.Fatal("nil reader")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewMetricsReader_OTLPEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")
	if _, err := NewMetricsReader(context.Background(), "otlp"); err == nil {
		t.Fatal("expected error without an OTLP endpoint")
	}
}
