// Package config holds the gateway's immutable startup configuration.
//
// It gathers the per-task policy table (TTL, cacheability, retry budget,
// per-minute ceiling), per-role daily quotas, the global capacity ceiling,
// cache canonicalization settings, and telemetry retention into a single
// structure loaded once and injected by construction. Nothing in here is
// mutated at runtime.
package config
