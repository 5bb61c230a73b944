// Package health provides health checking primitives for the gateway.
//
// This package implements a generic health checking framework used to
// monitor the components the gateway depends on: the shared store backing
// admission counters and the response cache, the inference provider, and
// the gateway's own derived health score. It provides interfaces for
// defining health checks, aggregating results from multiple checkers, and
// exposing health status via HTTP endpoints.
//
// # Core Concepts
//
// A Checker is any component that can report its health status. The Status
// type represents the health state: Healthy, Degraded, or Unhealthy.
//
// # Basic Usage
//
//	// Check the shared store backing counters and cache
//	storeCheck := health.NewStoreChecker("redis", redisStore)
//
//	result := storeCheck.Check(ctx)
//	if result.Status == health.StatusUnhealthy {
//	    log.Printf("store unreachable: %s", result.Message)
//	}
//
// # Aggregating Health Checks
//
// Use Aggregator to combine multiple health checks into a single composite check:
//
//	agg := health.NewAggregator()
//	agg.Register("store", storeChecker)
//	agg.Register("gateway", scoreChecker)
//	agg.Register("memory", memChecker)
//
//	// Check all components
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// # HTTP Endpoints
//
// The package provides HTTP handlers for common health check patterns:
//
//	// Liveness probe (for Kubernetes)
//	http.Handle("/healthz", health.LivenessHandler())
//
//	// Readiness probe with component checks
//	http.Handle("/readyz", health.ReadinessHandler(aggregator))
//
//	// Detailed health status
//	http.Handle("/health", health.DetailedHandler(aggregator))
package health
