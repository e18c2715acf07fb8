// Package aside implements a cache-aside read-through accessor with a
// stampede-safe single-flight fill. A read checks the cache first; on miss,
// exactly one concurrent caller per key fetches from the authoritative
// Source, writes the value back with a jittered TTL, and shares the result
// (or the error) with every waiter.
//
// Components:
//   - Provider: byte store with TTL (e.g. Ristretto, BigCache, Redis) — the
//     cache collaborator. The accessor never retains entries across calls.
//   - Source[V]: authoritative store (DB, table service, HTTP backend).
//     Fetched at most once per key under concurrent misses.
//   - Codec[V]: (de)serializes V <-> []byte so cache and source agree on a
//     single canonical value shape.
//
// Keys:
//
//	val:<ns>:<key>  - cached entries (values and negative markers)
//
// Optional policies:
//   - NegativeTTL caches Source "not found" answers to shield the Source
//     from repeated lookups of absent keys.
//   - StaleWhileRevalidate serves an expired-but-retained entry immediately
//     and refreshes it in the background, single-flighted.
//
// Source errors are never retried here; retry is a separately composable
// policy for the caller. The accessor's job is the single-flight invariant
// and faithful propagation of the one real fetch's outcome to all waiters.
package aside
