// Package respcache stores and retrieves previously computed provider
// responses.
//
// Keys are derived from a canonical JSON form of the task context: map keys
// are sorted and volatile fields (timestamps, request IDs) stripped before
// hashing, so semantically identical requests share an entry. Each key also
// embeds the patient's invalidation epoch and the task's version epoch —
// bumping an epoch makes every dependent entry unreachable in O(1) without
// enumeration.
//
// Get never returns an entry past its TTL; GetStale ignores the TTL and is
// reserved for the degraded-mode fallback path. Put refuses non-cacheable
// tasks, excluded tasks, and overridden or degraded responses.
package respcache
