package memo

import (
	"cmp"
	"slices"
)

// Domain memoizes a single-argument computation over a fixed, enumerated
// set of permitted keys. A sorted copy of the domain is retained and
// keys resolve to slots by binary search; a key outside the domain fails
// with a *NotFoundError and leaves the cache untouched.
type Domain[K comparable, V any] struct {
	compute func(K) (V, error)
	values  []K // sorted, deduplicated copy of the domain
	cmp     func(K, K) int
	slots   []*Once[V]
}

// NewDomain creates a fixed-domain cache over values in natural order.
func NewDomain[K cmp.Ordered, V any](compute func(K) (V, error), values []K, s Stability) (*Domain[K, V], error) {
	return NewDomainFunc(compute, values, cmp.Compare[K], s)
}

// NewDomainFunc creates a fixed-domain cache ordered by compare, which
// must return a negative number, zero, or a positive number as a is
// less than, equal to, or greater than b.
func NewDomainFunc[K comparable, V any](compute func(K) (V, error), values []K, compare func(a, b K) int, s Stability) (*Domain[K, V], error) {
	if compute == nil {
		return nil, ErrNilComputation
	}
	if compare == nil {
		return nil, ErrNilComparator
	}
	if len(values) == 0 {
		return nil, ErrEmptyDomain
	}

	sorted := slices.Clone(values)
	slices.SortFunc(sorted, compare)
	sorted = slices.CompactFunc(sorted, func(a, b K) bool { return compare(a, b) == 0 })

	slots := make([]*Once[V], len(sorted))
	for i := range slots {
		slots[i] = newSlot[V](s)
	}
	return &Domain[K, V]{
		compute: compute,
		values:  sorted,
		cmp:     compare,
		slots:   slots,
	}, nil
}

// Get returns the memoized result for key, executing the computation at
// most once per domain value.
func (c *Domain[K, V]) Get(key K) (V, error) {
	v, _, err := c.lookup(key)
	return v, err
}

// Refresh always executes the computation for key and republishes its
// slot.
func (c *Domain[K, V]) Refresh(key K) (V, error) {
	slot, err := c.slot(key)
	if err != nil {
		var zero V
		return zero, err
	}
	return slot.refreshWith(func() (V, error) { return c.compute(key) })
}

// Reset resets every slot independently.
func (c *Domain[K, V]) Reset() {
	for _, slot := range c.slots {
		slot.Reset()
	}
}

// Values returns the sorted domain. The caller must not mutate it.
func (c *Domain[K, V]) Values() []K {
	return c.values
}

func (c *Domain[K, V]) lookup(key K) (V, bool, error) {
	slot, err := c.slot(key)
	if err != nil {
		var zero V
		return zero, false, err
	}
	return slot.get(func() (V, error) { return c.compute(key) })
}

func (c *Domain[K, V]) slot(key K) (*Once[V], error) {
	i, ok := slices.BinarySearchFunc(c.values, key, c.cmp)
	if !ok {
		return nil, &NotFoundError{Key: key}
	}
	return c.slots[i], nil
}

var _ Registry = (*Domain[string, int])(nil)
