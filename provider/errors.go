package provider

import (
	"fmt"
	"time"
)

// TimeoutError reports a provider call that exceeded its budget.
type TimeoutError struct {
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("provider: call timed out after %s", e.Elapsed)
}

// RateLimitedError reports upstream throttling (e.g. HTTP 429).
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider: rate limited upstream, retry after %s", e.RetryAfter)
	}
	return "provider: rate limited upstream"
}

// SafetyBlockedError reports output blocked by the provider's safety system.
type SafetyBlockedError struct {
	Reason string
}

func (e *SafetyBlockedError) Error() string {
	if e.Reason != "" {
		return "provider: blocked by safety system: " + e.Reason
	}
	return "provider: blocked by safety system"
}

// ConfigurationError reports an operator-fixable problem (bad credentials,
// unknown model, malformed request).
type ConfigurationError struct {
	Detail string
}

func (e *ConfigurationError) Error() string {
	return "provider: configuration error: " + e.Detail
}

// FaultError reports a provider-side failure (5xx, connection reset).
type FaultError struct {
	StatusCode int
	Detail     string
}

func (e *FaultError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider: upstream fault (status %d): %s", e.StatusCode, e.Detail)
	}
	return "provider: upstream fault: " + e.Detail
}
