package memo

// Indexed memoizes a single-argument computation over a key domain that
// maps onto a dense integer range. The backing store is a fixed slot
// array; slot i is an independent one-time publish cache, so lookups for
// different indices never block each other.
//
// The slot array never resizes. An index outside [0, size) fails with a
// *BoundsError carrying the key and the computed index; it is never
// clamped or wrapped.
type Indexed[K comparable, V any] struct {
	compute func(K) (V, error)
	index   func(K) int
	slots   []*Once[V]
}

// NewIndexed creates an indexed slot cache of the given size. index must
// be a pure function mapping each legal key to its slot.
func NewIndexed[K comparable, V any](compute func(K) (V, error), index func(K) int, size int, s Stability) (*Indexed[K, V], error) {
	if compute == nil {
		return nil, ErrNilComputation
	}
	if index == nil {
		return nil, ErrNilIndexFunc
	}
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	slots := make([]*Once[V], size)
	for i := range slots {
		slots[i] = newSlot[V](s)
	}
	return &Indexed[K, V]{
		compute: compute,
		index:   index,
		slots:   slots,
	}, nil
}

// Get returns the memoized result for key, executing the computation at
// most once per slot.
func (c *Indexed[K, V]) Get(key K) (V, error) {
	v, _, err := c.lookup(key)
	return v, err
}

// Refresh always executes the computation for key and republishes its
// slot.
func (c *Indexed[K, V]) Refresh(key K) (V, error) {
	slot, err := c.slot(key)
	if err != nil {
		var zero V
		return zero, err
	}
	return slot.refreshWith(func() (V, error) { return c.compute(key) })
}

// Reset resets every slot independently.
func (c *Indexed[K, V]) Reset() {
	for _, slot := range c.slots {
		slot.Reset()
	}
}

// Size reports the configured slot array size.
func (c *Indexed[K, V]) Size() int {
	return len(c.slots)
}

func (c *Indexed[K, V]) lookup(key K) (V, bool, error) {
	slot, err := c.slot(key)
	if err != nil {
		var zero V
		return zero, false, err
	}
	return slot.get(func() (V, error) { return c.compute(key) })
}

func (c *Indexed[K, V]) slot(key K) (*Once[V], error) {
	i := c.index(key)
	if i < 0 || i >= len(c.slots) {
		return nil, &BoundsError{Key: key, Index: i, Size: len(c.slots)}
	}
	return c.slots[i], nil
}

var _ Registry = (*Indexed[int, string])(nil)
