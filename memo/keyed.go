package memo

import "sync"

// Keyed memoizes a single-argument computation per distinct key.
//
// Each key gets an independent Once entry, so two different keys never
// contend on the same guard, failed executions stay uncached, and a
// published key is a lock-free read. Nil pointer or interface keys are
// ordinary map keys; no sentinel handling is needed.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: computation failures propagate and are never stored.
type Keyed[K comparable, V any] struct {
	compute   func(K) (V, error)
	stability Stability

	mu      sync.RWMutex
	entries map[K]*Once[V]
}

// NewKeyed creates a keyed memoization cache around compute.
func NewKeyed[K comparable, V any](compute func(K) (V, error), s Stability) (*Keyed[K, V], error) {
	if compute == nil {
		return nil, ErrNilComputation
	}
	return &Keyed[K, V]{
		compute:   compute,
		stability: s,
		entries:   make(map[K]*Once[V]),
	}, nil
}

// Get returns the memoized result for key, executing the computation at
// most once per distinct key.
func (c *Keyed[K, V]) Get(key K) (V, error) {
	return c.entry(key).Get()
}

// Refresh always executes the computation for key and republishes,
// overwriting any published entry.
func (c *Keyed[K, V]) Refresh(key K) (V, error) {
	return c.entry(key).Refresh()
}

// Set publishes an externally supplied value for key without executing.
func (c *Keyed[K, V]) Set(key K, v V) {
	c.entry(key).Set(v)
}

// Reset clears every key. Entries created by in-flight lookups after the
// clear re-execute on first access.
func (c *Keyed[K, V]) Reset() {
	c.mu.Lock()
	c.entries = make(map[K]*Once[V])
	c.mu.Unlock()
}

// Len reports the number of keys with an entry, published or in flight.
func (c *Keyed[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// lookup is Get plus a report of whether this call executed the
// computation, for the instrumented wrappers.
func (c *Keyed[K, V]) lookup(key K) (V, bool, error) {
	e := c.entry(key)
	return e.get(e.compute)
}

// entry returns the Once for key, creating it on first use.
func (c *Keyed[K, V]) entry(key K) *Once[V] {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return e
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok = c.entries[key]; ok {
		return e
	}
	e = newOnce(func() (V, error) { return c.compute(key) }, c.stability)
	c.entries[key] = e
	return e
}

var _ Registry = (*Keyed[string, int])(nil)
