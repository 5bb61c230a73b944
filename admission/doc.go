// Package admission decides whether a gateway request may proceed.
//
// Three ceilings are enforced in a fixed order: the global per-minute
// capacity, the per-(actor, task) per-minute ceiling, then the per-actor
// daily quota. Evaluation short-circuits at the first failing check, so a
// rejected request never spends quota under later ceilings. Each check is a
// single atomic increment against the shared counter store; quota is spent
// at admission time, so a request that later fails at the provider still
// counts (deliberate anti-abuse choice).
//
// Store outages are governed by an explicit fail-open or fail-closed policy;
// there is no implicit behavior.
package admission
