package dispatch

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestCell_LoadInitial(t *testing.T) {
	c := New(func() int { return 1 })

	if got := c.Load()(); got != 1 {
		t.Errorf("Load()() = %d, want 1", got)
	}
}

func TestCell_Store(t *testing.T) {
	c := New(func() int { return 1 })

	c.Store(func() int { return 2 })

	if got := c.Load()(); got != 2 {
		t.Errorf("Load()() after Store = %d, want 2", got)
	}
}

func TestCell_Swap(t *testing.T) {
	c := New(func() int { return 1 })

	old := c.Swap(func() int { return 2 })

	if got := old(); got != 1 {
		t.Errorf("Swap returned target yielding %d, want 1", got)
	}
	if got := c.Load()(); got != 2 {
		t.Errorf("Load()() after Swap = %d, want 2", got)
	}
}

// TestCell_PublicationVisibility checks that a goroutine observing the
// rebound target also observes state written before the rebind.
func TestCell_PublicationVisibility(t *testing.T) {
	c := New(func() int { return 0 })

	var published int64
	var wg sync.WaitGroup

	// Publisher: write the payload, then rebind.
	wg.Add(1)
	go func() {
		defer wg.Done()
		atomic.StoreInt64(&published, 0) // force the variable into play
		payload := 42
		c.Store(func() int { return payload })
	}()

	// Readers: once they see a non-zero result, it must be the full payload.
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if got := c.Load()(); got != 0 && got != 42 {
					t.Errorf("observed torn publication: %d", got)
					return
				}
			}
		}()
	}

	wg.Wait()
}

func TestCell_ConcurrentStoreLoad(t *testing.T) {
	c := New(func() int { return -1 })

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				c.Store(func() int { return i })
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				if got := c.Load()(); got < -1 || got > 3 {
					t.Errorf("Load()() = %d, not a stored value", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
