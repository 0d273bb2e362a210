package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetOrComputeHit(t *testing.T) {
	c := New[string](time.Minute, 8)
	calls := 0
	producer := func() (string, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrCompute("key", producer)
		if err != nil {
			t.Fatalf("GetOrCompute failed: %v", err)
		}
		if v != "value" {
			t.Errorf("got %q, want \"value\"", v)
		}
	}
	if calls != 1 {
		t.Errorf("producer ran %d times, want 1", calls)
	}

	hits, misses := c.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("stats = %d hits / %d misses, want 2/1", hits, misses)
	}
}

func TestGetOrComputeExpiry(t *testing.T) {
	c := New[int](20*time.Millisecond, 8)
	calls := 0
	producer := func() (int, error) {
		calls++
		return calls, nil
	}

	if v, _ := c.GetOrCompute("key", producer); v != 1 {
		t.Fatalf("got %d, want 1", v)
	}
	time.Sleep(40 * time.Millisecond)
	if v, _ := c.GetOrCompute("key", producer); v != 2 {
		t.Errorf("expired entry not recomputed, got %d", v)
	}
}

func TestCapacityEvictsLeastRecentlyInserted(t *testing.T) {
	c := New[string](time.Minute, 2)
	produced := func(v string) func() (string, error) {
		return func() (string, error) { return v, nil }
	}

	c.GetOrCompute("a", produced("A"))
	c.GetOrCompute("b", produced("B"))
	c.GetOrCompute("c", produced("C"))

	if c.Len() != 2 {
		t.Fatalf("cache holds %d entries, want 2", c.Len())
	}

	// "a" was inserted first and must be gone; its next compute runs.
	ran := false
	c.GetOrCompute("a", func() (string, error) {
		ran = true
		return "A2", nil
	})
	if !ran {
		t.Error("evicted key was served from cache")
	}

	// "c" survived.
	ran = false
	c.GetOrCompute("c", func() (string, error) {
		ran = true
		return "", nil
	})
	if ran {
		t.Error("resident key was recomputed")
	}
}

func TestFailuresNotCached(t *testing.T) {
	c := New[string](time.Minute, 8)
	boom := errors.New("boom")
	calls := 0

	_, err := c.GetOrCompute("key", func() (string, error) {
		calls++
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected producer error, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("failure was stored, cache holds %d entries", c.Len())
	}

	v, err := c.GetOrCompute("key", func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil || v != "ok" {
		t.Fatalf("retry after failure: %q, %v", v, err)
	}
	if calls != 2 {
		t.Errorf("producer ran %d times, want 2", calls)
	}
}

func TestConcurrentSameKeySingleProducer(t *testing.T) {
	c := New[int](time.Minute, 8)
	var calls int32

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrCompute("key", func() (int, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(20 * time.Millisecond)
				return 42, nil
			})
			if err != nil || v != 42 {
				t.Errorf("GetOrCompute = %d, %v", v, err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("32 concurrent callers ran the producer %d times, want 1", got)
	}
}

func TestConcurrentDistinctKeys(t *testing.T) {
	c := New[int](time.Minute, 64)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := string(rune('a' + i))
			v, err := c.GetOrCompute(key, func() (int, error) { return i, nil })
			if err != nil || v != i {
				t.Errorf("key %s: got %d, %v", key, v, err)
			}
		}()
	}
	wg.Wait()

	if c.Len() != 16 {
		t.Errorf("cache holds %d entries, want 16", c.Len())
	}
}
