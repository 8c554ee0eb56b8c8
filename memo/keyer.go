package memo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Keyer generates deterministic cache keys from argument tuples.
//
// Contract:
// - Determinism: equal tuples must produce equal keys, regardless of map
//   iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key for an ordered argument tuple.
	Key(args []any) (string, error)
}

// DefaultKeyer hashes the canonical JSON form of the argument tuple.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic cache key.
// Format: memo:<arity>:<hash>, where hash is the xxhash64 of the
// canonical JSON encoding of the tuple. Keys never leave the process, so
// a fast non-cryptographic hash is sufficient.
func (k *DefaultKeyer) Key(args []any) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, arg := range args {
		if i > 0 {
			buf.WriteByte(',')
		}
		enc, err := canonicalize(arg)
		if err != nil {
			return "", fmt.Errorf("memo: failed to canonicalize argument %d: %w", i, err)
		}
		buf.Write(enc)
	}
	buf.WriteByte(']')

	return fmt.Sprintf("memo:%d:%016x", len(args), xxhash.Sum64(buf.Bytes())), nil
}

// canonicalize produces a deterministic JSON representation of v. Maps
// are encoded with sorted keys; everything else relies on encoding/json's
// deterministic struct field order.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		val, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		val, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

var _ Keyer = (*DefaultKeyer)(nil)
