package memo

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewDomain_ConstructionErrors(t *testing.T) {
	compute := func(k string) (int, error) { return len(k), nil }

	if _, err := NewDomain[string, int](nil, []string{"a"}, Stable); !errors.Is(err, ErrNilComputation) {
		t.Errorf("nil compute error = %v, want ErrNilComputation", err)
	}
	if _, err := NewDomain(compute, []string{}, Stable); !errors.Is(err, ErrEmptyDomain) {
		t.Errorf("empty domain error = %v, want ErrEmptyDomain", err)
	}
	if _, err := NewDomainFunc(compute, []string{"a"}, nil, Stable); !errors.Is(err, ErrNilComparator) {
		t.Errorf("nil comparator error = %v, want ErrNilComparator", err)
	}
}

func TestDomain_LookupCorrectness(t *testing.T) {
	var executions atomic.Int64
	c, err := NewDomain(func(k string) (string, error) {
		executions.Add(1)
		return strings.ToUpper(k), nil
	}, []string{"red", "green", "blue"}, Stable)
	if err != nil {
		t.Fatalf("NewDomain failed: %v", err)
	}

	// A key outside the domain is rejected and nothing executes.
	_, err = c.Get("white")
	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("Get(white) error = %v, want *NotFoundError", err)
	}
	if nfe.Key != "white" {
		t.Errorf("NotFoundError.Key = %v, want white", nfe.Key)
	}
	if n := executions.Load(); n != 0 {
		t.Errorf("computation executed %d times for rejected key, want 0", n)
	}

	// A domain key executes exactly once across repeated lookups.
	for i := 0; i < 2; i++ {
		v, err := c.Get("green")
		if err != nil {
			t.Fatalf("Get(green) failed: %v", err)
		}
		if v != "GREEN" {
			t.Errorf("Get(green) = %q, want GREEN", v)
		}
	}
	if n := executions.Load(); n != 1 {
		t.Errorf("computation executed %d times, want 1", n)
	}
}

func TestDomain_ValuesSortedAndDeduplicated(t *testing.T) {
	c, _ := NewDomain(func(k string) (int, error) { return len(k), nil },
		[]string{"blue", "red", "green", "red"}, Stable)

	want := []string{"blue", "green", "red"}
	if diff := cmp.Diff(want, c.Values()); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
}

func TestDomain_Comparator(t *testing.T) {
	// Case-insensitive domain.
	fold := func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	}
	var executions atomic.Int64
	c, err := NewDomainFunc(func(k string) (string, error) {
		executions.Add(1)
		return k, nil
	}, []string{"Red", "GREEN"}, fold, Stable)
	if err != nil {
		t.Fatalf("NewDomainFunc failed: %v", err)
	}

	// "red" and "Red" resolve to the same slot under the comparator.
	if _, err := c.Get("red"); err != nil {
		t.Fatalf("Get(red) failed: %v", err)
	}
	if _, err := c.Get("Red"); err != nil {
		t.Fatalf("Get(Red) failed: %v", err)
	}
	if n := executions.Load(); n != 1 {
		t.Errorf("computation executed %d times, want 1", n)
	}

	var nfe *NotFoundError
	if _, err := c.Get("blue"); !errors.As(err, &nfe) {
		t.Errorf("Get(blue) error = %v, want *NotFoundError", err)
	}
}

func TestDomain_ResetAndRefresh(t *testing.T) {
	var executions atomic.Int64
	c, _ := NewDomain(func(k int) (int64, error) {
		return executions.Add(1), nil
	}, []int{1, 2, 3}, Volatile)

	if v, _ := c.Get(2); v != 1 {
		t.Fatalf("Get(2) = %d, want 1", v)
	}
	if v, err := c.Refresh(2); err != nil || v != 2 {
		t.Fatalf("Refresh(2) = (%d, %v), want (2, nil)", v, err)
	}

	c.Reset()
	if v, _ := c.Get(2); v != 3 {
		t.Errorf("Get(2) after Reset = %d, want 3", v)
	}

	var nfe *NotFoundError
	if _, err := c.Refresh(9); !errors.As(err, &nfe) {
		t.Errorf("Refresh(9) error = %v, want *NotFoundError", err)
	}
}
