package memo

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestBoundsError_Message(t *testing.T) {
	err := &BoundsError{Key: "color", Index: 12, Size: 10}

	msg := err.Error()
	for _, want := range []string{"12", "color", "[0,10)"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestNotFoundError_Message(t *testing.T) {
	err := &NotFoundError{Key: "white"}

	if !strings.Contains(err.Error(), "white") {
		t.Errorf("Error() = %q, missing key", err.Error())
	}
}

func TestTypedErrors_As(t *testing.T) {
	var be *BoundsError
	wrapped := fmt.Errorf("lookup failed: %w", &BoundsError{Index: 3, Size: 2})
	if !errors.As(wrapped, &be) {
		t.Error("errors.As failed to unwrap *BoundsError")
	}
	if be.Index != 3 {
		t.Errorf("unwrapped Index = %d, want 3", be.Index)
	}

	var nfe *NotFoundError
	if !errors.As(fmt.Errorf("x: %w", &NotFoundError{Key: 1}), &nfe) {
		t.Error("errors.As failed to unwrap *NotFoundError")
	}
}

func TestSentinelErrors_Prefixed(t *testing.T) {
	sentinels := []error{
		ErrNilComputation,
		ErrNilIndexFunc,
		ErrInvalidSize,
		ErrEmptyDomain,
		ErrNilComparator,
		ErrNotFunc,
		ErrVariadicFunc,
	}
	for _, err := range sentinels {
		if !strings.HasPrefix(err.Error(), "memo: ") {
			t.Errorf("sentinel %q lacks package prefix", err.Error())
		}
	}
}
