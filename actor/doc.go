// Package actor defines the identity of a gateway caller.
//
// An Identity pairs an opaque caller ID with a clinical Role. The gateway
// treats identities as read-only: they determine rate-limit keys and daily
// quota magnitudes but are never mutated. FromBearerToken extracts an
// Identity from a JWT for HTTP callers.
package actor
