// Package resilience provides the failure-handling primitives wrapped
// around the outbound inference call.
//
//   - Retry: re-invokes a failed call with exponential backoff and jitter,
//     gated by a caller-supplied predicate (the failure classifier decides
//     what is retryable).
//
//   - Timeout: bounds a call by a hard budget without blocking the caller
//     past it.
//
//   - CircuitBreaker: stops hammering a failing provider after a threshold,
//     probing recovery in a half-open state.
//
//   - Bulkhead: bounds concurrent in-flight provider calls.
//
// Each primitive is independent; the gateway composes them explicitly.
package resilience
