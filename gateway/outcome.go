package gateway

import (
	"encoding/json"

	"github.com/curamesh/aigateway/classify"
)

// Status is the terminal disposition of a processed request.
type Status int

const (
	// StatusSuccess means a response payload is available in Data.
	StatusSuccess Status = iota

	// StatusRejected means admission control refused the request before
	// any provider call. RetryAfterSeconds says when to come back.
	StatusRejected

	// StatusFailed means the provider call failed and no recovery path
	// produced a usable response. Failure carries the classification.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusRejected:
		return "rejected"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Metadata describes how an outcome was produced.
type Metadata struct {
	// FromCache marks a response served from the cache.
	FromCache bool `json:"fromCache"`

	// Stale marks a cached response served past its freshness TTL.
	Stale bool `json:"stale,omitempty"`

	// Degraded marks a response produced by the fallback provider.
	Degraded bool `json:"degraded,omitempty"`

	// LatencyMS is wall time for the whole Process call.
	LatencyMS int64 `json:"latencyMs"`

	// RequestID correlates logs, traces, and the outcome.
	RequestID string `json:"requestId"`

	// Provider names the provider that produced the response, empty for
	// cache hits and rejections.
	Provider string `json:"provider,omitempty"`
}

// Outcome is the result of one Process call. Exactly one of the three
// statuses applies; Data is set only on success.
type Outcome struct {
	Status Status          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Meta   Metadata        `json:"meta"`

	// Reason is a short machine-readable rejection reason.
	Reason string `json:"reason,omitempty"`

	// RetryAfterSeconds is set on rejections.
	RetryAfterSeconds int `json:"retryAfterSeconds,omitempty"`

	// Failure is the classification for failed outcomes. Its UserMessage
	// is safe to show to end users; Err is not.
	Failure *classify.Classification `json:"-"`
}
