// Package observe provides observability primitives for gateway requests.
//
// It is a pure instrumentation library: no admission, no caching, no I/O
// beyond exporter setup. The gateway wires the observer into its request
// path and hands the meter to the telemetry recorder.
package observe
