package classify

import (
	"context"
	"errors"
	"strings"

	"github.com/curamesh/aigateway/provider"
	"github.com/curamesh/aigateway/resilience"
)

// Category identifies the kind of failure.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryTimeout
	CategoryRateLimitUpstream
	CategorySafetyViolation
	CategoryConfiguration
	CategoryProviderFault
)

// String returns the wire form of the category.
func (c Category) String() string {
	switch c {
	case CategoryTimeout:
		return "timeout"
	case CategoryRateLimitUpstream:
		return "rate_limit_upstream"
	case CategorySafetyViolation:
		return "safety_violation"
	case CategoryConfiguration:
		return "configuration"
	case CategoryProviderFault:
		return "provider_fault"
	default:
		return "unknown"
	}
}

// Severity grades operational impact.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the wire form of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "critical"
	}
}

// Strategy is the recommended recovery action.
type Strategy int

const (
	StrategyManualIntervention Strategy = iota
	StrategyRetry
	StrategyFallback
	StrategyCacheStale
	StrategyAbort
)

// String returns the wire form of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyRetry:
		return "retry"
	case StrategyFallback:
		return "fallback"
	case StrategyCacheStale:
		return "cache_stale"
	case StrategyAbort:
		return "abort"
	default:
		return "manual_intervention"
	}
}

// Classification is the structured decision for one failing call.
type Classification struct {
	Category    Category
	Severity    Severity
	Strategy    Strategy
	UserMessage string

	// Err is the original error, never shown to end users.
	Err error
}

// profile is the per-category default decision.
type profile struct {
	severity Severity
	strategy Strategy
	message  string
}

// defaultProfiles fixes each category's severity, strategy, and user-facing
// message. Raw provider text never reaches users.
var defaultProfiles = map[Category]profile{
	CategoryTimeout: {
		severity: SeverityMedium,
		strategy: StrategyRetry,
		message:  "The assistant took too long to respond. Please try again.",
	},
	CategoryRateLimitUpstream: {
		severity: SeverityMedium,
		strategy: StrategyCacheStale,
		message:  "The assistant is busy right now. Please try again shortly.",
	},
	CategorySafetyViolation: {
		severity: SeverityCritical,
		strategy: StrategyAbort,
		message:  "This request could not be completed. The content was flagged for review.",
	},
	CategoryConfiguration: {
		severity: SeverityHigh,
		strategy: StrategyManualIntervention,
		message:  "The assistant is misconfigured. Your administrator has been notified.",
	},
	CategoryProviderFault: {
		severity: SeverityHigh,
		strategy: StrategyFallback,
		message:  "The assistant is temporarily unavailable. Please try again shortly.",
	},
	CategoryUnknown: {
		severity: SeverityMedium,
		strategy: StrategyManualIntervention,
		message:  "Something went wrong. The issue has been recorded for follow-up.",
	},
}

// messagePatterns maps lowercase substrings to categories, checked in order.
// Typed errors are matched before any of these.
var messagePatterns = []struct {
	substrings []string
	category   Category
}{
	{[]string{"timeout", "timed out", "deadline exceeded"}, CategoryTimeout},
	{[]string{"rate limit", "too many requests", "429"}, CategoryRateLimitUpstream},
	{[]string{"safety", "content policy", "content blocked", "flagged"}, CategorySafetyViolation},
	{[]string{"api key", "unauthorized", "invalid model", "misconfigur", "401", "403"}, CategoryConfiguration},
	{[]string{"unavailable", "bad gateway", "connection refused", "connection reset", "500", "502", "503"}, CategoryProviderFault},
}

// Override replaces the default severity and/or strategy for a category.
type Override struct {
	Severity *Severity
	Strategy *Strategy
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithOverride replaces the defaults for one category at this call site.
func WithOverride(c Category, o Override) Option {
	return func(cl *Classifier) {
		cl.overrides[c] = o
	}
}

// WithUserMessage replaces the user-facing message for one category.
func WithUserMessage(c Category, msg string) Option {
	return func(cl *Classifier) {
		cl.messages[c] = msg
	}
}

// Classifier maps errors to classifications.
type Classifier struct {
	overrides map[Category]Override
	messages  map[Category]string
}

// New creates a classifier with the default per-category profiles.
func New(opts ...Option) *Classifier {
	cl := &Classifier{
		overrides: make(map[Category]Override),
		messages:  make(map[Category]string),
	}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

// Classify produces the decision for err. Deterministic: the same error
// always yields the same classification.
func (cl *Classifier) Classify(err error) Classification {
	category := categorize(err)

	p := defaultProfiles[category]
	decision := Classification{
		Category:    category,
		Severity:    p.severity,
		Strategy:    p.strategy,
		UserMessage: p.message,
		Err:         err,
	}

	if o, ok := cl.overrides[category]; ok {
		if o.Severity != nil {
			decision.Severity = *o.Severity
		}
		if o.Strategy != nil {
			decision.Strategy = *o.Strategy
		}
	}
	if msg, ok := cl.messages[category]; ok {
		decision.UserMessage = msg
	}
	return decision
}

// categorize resolves the category: typed errors first, then messages.
func categorize(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	var timeoutErr *provider.TimeoutError
	var rateErr *provider.RateLimitedError
	var safetyErr *provider.SafetyBlockedError
	var configErr *provider.ConfigurationError
	var faultErr *provider.FaultError

	switch {
	case errors.As(err, &timeoutErr),
		errors.Is(err, resilience.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return CategoryTimeout
	case errors.As(err, &rateErr):
		return CategoryRateLimitUpstream
	case errors.As(err, &safetyErr):
		return CategorySafetyViolation
	case errors.As(err, &configErr):
		return CategoryConfiguration
	case errors.As(err, &faultErr),
		errors.Is(err, resilience.ErrCircuitOpen):
		return CategoryProviderFault
	}

	msg := strings.ToLower(err.Error())
	for _, p := range messagePatterns {
		for _, s := range p.substrings {
			if strings.Contains(msg, s) {
				return p.category
			}
		}
	}
	return CategoryUnknown
}
