// Package provider defines the contract with the remote inference provider.
//
// The gateway never interprets provider output; it only moves it. Failures
// surface as the typed errors in this package so the failure classifier can
// match on them without parsing provider-specific messages.
package provider
