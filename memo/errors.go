package memo

import (
	"errors"
	"fmt"
)

// Sentinel errors for cache construction.
var (
	// ErrNilComputation indicates a nil computation was supplied.
	ErrNilComputation = errors.New("memo: computation is nil")

	// ErrNilIndexFunc indicates a nil index mapping was supplied.
	ErrNilIndexFunc = errors.New("memo: index function is nil")

	// ErrInvalidSize indicates a non-positive slot array size.
	ErrInvalidSize = errors.New("memo: size must be positive")

	// ErrEmptyDomain indicates an empty fixed-domain value set.
	ErrEmptyDomain = errors.New("memo: domain is empty")

	// ErrNilComparator indicates a nil domain comparator.
	ErrNilComparator = errors.New("memo: comparator is nil")
)

// Sentinel errors for the reflect adapter.
var (
	// ErrNotFunc indicates the wrapped value is not a function.
	ErrNotFunc = errors.New("memo: not a function")

	// ErrVariadicFunc indicates the wrapped function is variadic.
	ErrVariadicFunc = errors.New("memo: variadic functions are not supported")
)

// BoundsError reports an index mapping that fell outside the configured
// slot range. The cache is unaffected by the failed lookup.
type BoundsError struct {
	// Key is the argument that produced the out-of-range index.
	Key any
	// Index is the index the mapping computed.
	Index int
	// Size is the configured slot array size.
	Size int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("memo: index %d for key %v out of range [0,%d)", e.Index, e.Key, e.Size)
}

// NotFoundError reports a key outside a fixed-domain cache's value set.
type NotFoundError struct {
	// Key is the argument that was not found in the domain.
	Key any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("memo: key %v not in domain", e.Key)
}
