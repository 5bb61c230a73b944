package provider

import (
	"context"
	"encoding/json"
)

// Options carries per-call settings passed through to the provider.
type Options struct {
	// Hints are opaque task hints forwarded unchanged.
	Hints map[string]any

	// Model optionally pins a model identifier.
	Model string
}

// RawResult is the provider's answer, opaque to the gateway.
type RawResult struct {
	// Data is the response payload.
	Data json.RawMessage

	// Model is the model that produced the response.
	Model string
}

// Provider performs the actual model call.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Invoke must honor cancellation and deadlines.
// - Errors: failures should be one of this package's typed errors where
//   the cause is known; anything else is classified by message.
type Provider interface {
	// Invoke performs one inference call for a task.
	Invoke(ctx context.Context, task string, input map[string]any, opts Options) (*RawResult, error)

	// Name identifies the provider in logs and dashboards.
	Name() string
}

// Func adapts a function to the Provider interface. Test helper and
// building block for simple fallbacks.
type Func struct {
	InvokeFunc   func(ctx context.Context, task string, input map[string]any, opts Options) (*RawResult, error)
	ProviderName string
}

// Invoke calls the wrapped function.
func (f Func) Invoke(ctx context.Context, task string, input map[string]any, opts Options) (*RawResult, error) {
	return f.InvokeFunc(ctx, task, input, opts)
}

// Name returns the configured name, defaulting to "func".
func (f Func) Name() string {
	if f.ProviderName == "" {
		return "func"
	}
	return f.ProviderName
}

// Ensure Func implements Provider
var _ Provider = Func{}
