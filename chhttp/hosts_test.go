package chhttp

import (
	"errors"
	"testing"
	"time"
)

func TestHostPoolCyclesThroughHealthyHosts(t *testing.T) {
	pool := NewHostPool(Host{BaseURL: "a", Weight: 1}, Host{BaseURL: "b", Weight: 1})
	defer pool.Close()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		host, ok := pool.Next()
		if !ok {
			t.Fatalf("expected a healthy host")
		}
		seen[host] = true
	}
	if len(seen) != 2 {
		t.Fatalf("expected to see both hosts over 20 picks, saw %v", seen)
	}
}

func TestHostPoolSkipsBrokenHost(t *testing.T) {
	pool := NewHostPool(Host{BaseURL: "a", Weight: 1}, Host{BaseURL: "b", Weight: 1})
	defer pool.Close()

	pool.MarkBroken("a", func(string) error {
		// Never heals during the test; retryLoop just spins in the background.
		return errors.New("still down")
	})

	for i := 0; i < 10; i++ {
		host, ok := pool.Next()
		if !ok {
			t.Fatalf("expected the remaining host to still be usable")
		}
		if host != "b" {
			t.Fatalf("expected only host b, got %s", host)
		}
	}
}

func TestHostPoolEmptyReturnsNotOK(t *testing.T) {
	pool := NewHostPool()
	defer pool.Close()
	if _, ok := pool.Next(); ok {
		t.Fatalf("expected an empty pool to report no hosts")
	}
}

func TestHostPoolAllBrokenReturnsNotOK(t *testing.T) {
	pool := NewHostPool(Host{BaseURL: "a", Weight: 1})
	defer pool.Close()
	pool.MarkBroken("a", func(string) error { return errors.New("down") })
	// give MarkBroken's synchronous bookkeeping (not the goroutine) a moment
	time.Sleep(time.Millisecond)
	if _, ok := pool.Next(); ok {
		t.Fatalf("expected no healthy hosts")
	}
}
