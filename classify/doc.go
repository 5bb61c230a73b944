// Package classify turns a provider failure into a structured decision.
//
// The category set is closed: Timeout, RateLimitUpstream, SafetyViolation,
// Configuration, ProviderFault, Unknown. Each category carries a default
// severity and recovery strategy, overridable per call site. Classification
// is deterministic — typed errors are matched first, then message patterns —
// and unmatched errors land on Unknown/Medium/ManualIntervention rather
// than being treated as safe to retry. The classifier only recommends a
// strategy; the orchestrator executes it.
package classify
