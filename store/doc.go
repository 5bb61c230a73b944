// Package store abstracts the shared atomic state backing the gateway.
//
// All mutable state shared between gateway replicas — admission counters,
// cache entries, and invalidation epochs — lives behind the interfaces here.
// Every mutation is a single atomic primitive against the backing store:
// increment-with-expiry for counters, put-with-TTL for cache entries, and
// monotone increment for epochs. Two implementations are provided: Memory
// for tests and single-node deployments, and Redis for replicated ones.
package store
