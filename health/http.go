package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// LivenessHandler answers liveness probes. It only proves the process
// is serving requests; no checkers run.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler answers readiness probes by running every registered
// check. Degraded still reports ready; unhealthy does not.
func ReadinessHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		results := agg.CheckAll(ctx)
		w.Header().Set("Content-Type", "text/plain")

		switch agg.OverallStatus(results) {
		case StatusHealthy:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		case StatusDegraded:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("DEGRADED"))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("UNHEALTHY"))
		}
	}
}

// HealthResponse is the JSON body of the detailed health endpoint.
type HealthResponse struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Checks    map[string]CheckResponse `json:"checks"`
}

// CheckResponse is one check inside a HealthResponse.
type CheckResponse struct {
	Status     string         `json:"status"`
	Message    string         `json:"message,omitempty"`
	Error      string         `json:"error,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	DurationMS int64          `json:"durationMs"`
}

// DetailedHandler reports every check result as JSON. Unhealthy overall
// status maps to 503 so the endpoint doubles as a strict probe.
func DetailedHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		results := agg.CheckAll(ctx)
		resp := HealthResponse{
			Status:    agg.OverallStatus(results).String(),
			Timestamp: time.Now().UTC(),
			Checks:    make(map[string]CheckResponse, len(results)),
		}
		for name, res := range results {
			cr := CheckResponse{
				Status:     res.Status.String(),
				Message:    res.Message,
				Details:    res.Details,
				DurationMS: res.Duration.Milliseconds(),
			}
			if res.Error != nil {
				cr.Error = res.Error.Error()
			}
			resp.Checks[name] = cr
		}

		code := http.StatusOK
		if resp.Status == StatusUnhealthy.String() {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// RegisterHandlers mounts the three probe endpoints on mux: /healthz
// (liveness), /readyz (readiness), and /health (detailed JSON).
func RegisterHandlers(mux *http.ServeMux, agg *Aggregator) {
	mux.HandleFunc("/healthz", LivenessHandler())
	mux.HandleFunc("/readyz", ReadinessHandler(agg))
	mux.HandleFunc("/health", DetailedHandler(agg))
}
