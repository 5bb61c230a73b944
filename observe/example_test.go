package observe_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/curamesh/aigateway/observe"
)

func ExampleNewObserver() {
	cfg := observe.Config{
		ServiceName: "aigateway",
		Version:     "1.0.0",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     observe.MetricsConfig{Enabled: false},
		Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
	}

	ctx := context.Background()
	obs, err := observe.NewObserver(ctx, cfg)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer func() {
		_ = obs.Shutdown(ctx)
	}()

	fmt.Println("Observer created successfully")
	// Output:
	// Observer created successfully
}

func ExampleConfig_Validate() {
	cfg := observe.Config{
		ServiceName: "aigateway",
		Version:     "1.0.0",
		Tracing: observe.TracingConfig{
			Enabled:   true,
			Exporter:  "stdout",
			SamplePct: 0.5, // 50% sampling
		},
	}

	if err := cfg.Validate(); err != nil {
		fmt.Println("invalid:", err)
		return
	}
	fmt.Println("valid")
	// Output:
	// valid
}

func ExampleNewLoggerWithWriter() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	reqLogger := logger.WithRequest(observe.RequestMeta{Task: "explain"})
	reqLogger.Info(context.Background(), "request complete",
		observe.Field{Key: "patientId", Value: "p-1"},
	)

	// Patient identifiers never reach the log stream.
	fmt.Println(strings.Contains(buf.String(), "p-1"))
	fmt.Println(strings.Contains(buf.String(), "[REDACTED]"))
	// Output:
	// false
	// true
}
