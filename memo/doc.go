// Package memo provides a memoizing dispatch cache for arbitrary
// computations.
//
// Every cache in this package exposes the same contract: an accessor that
// executes the wrapped computation at most once per distinct key and then
// serves the published result from a lock-free read path, an updater that
// forces recomputation and republishes, and Reset, which returns the cache
// to its initial "nothing published" state. Computation failures propagate
// to the caller, are never cached, and never leave a guard held.
//
// Four backing strategies cover the common key-domain shapes:
//
//   - Once: a zero-argument computation published at most once.
//   - Keyed: a hash-map cache for arbitrary comparable keys.
//   - Indexed: a fixed slot array for keys mappable to a dense integer
//     range, one independent guard per slot.
//   - Domain: a sorted-array/binary-search cache for a small enumerated
//     set of permitted keys.
//
// Func0 through Func3 adapt multi-argument functions onto these caches
// with structural tuple keys, and Wrap memoizes any function value behind
// its own dynamic type using reflection.
package memo
