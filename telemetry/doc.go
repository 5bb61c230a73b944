// Package telemetry records per-request outcomes and derives operational
// health signals.
//
// The recorder keeps rolling minute, hour, and day windows of request
// aggregates, created lazily and evicted after a configured retention.
// Metrics reports sum the retained windows of a period and attach a
// composite health score combining error rate, latency against a budget,
// and rate-limit pressure.
//
// When given an OpenTelemetry meter, the recorder mirrors its counters
// into otel instruments so the in-process windows and the export pipeline
// stay consistent.
package telemetry
