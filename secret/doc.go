// Package secret resolves sensitive configuration values.
//
// Gateway configuration (provider API keys, Redis credentials) never embeds
// secrets directly. Values use strict environment expansion (ExpandEnvStrict)
// or a "secretref:<provider>:<ref>" reference resolved by an injected
// Provider. Providers are passed by construction; there is no global
// registry.
package secret
