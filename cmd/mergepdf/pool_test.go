package main

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

// ---------------------------------------------------------------------------
// TestResolvePoolSize - Pool sizing
// ---------------------------------------------------------------------------

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	t.Run("explicit workers", func(t *testing.T) {
		t.Parallel()
		if got := resolvePoolSize(3); got != 3 {
			t.Errorf("resolvePoolSize(3) = %d, want 3", got)
		}
	})

	t.Run("explicit workers above auto cap", func(t *testing.T) {
		t.Parallel()
		if got := resolvePoolSize(20); got != 20 {
			t.Errorf("resolvePoolSize(20) = %d, want 20", got)
		}
	})

	t.Run("auto is within bounds", func(t *testing.T) {
		t.Parallel()
		got := resolvePoolSize(0)
		if got < 1 || got > maxAutoWorkers {
			t.Errorf("resolvePoolSize(0) = %d, want 1..%d", got, maxAutoWorkers)
		}
		want := runtime.GOMAXPROCS(0) / 2
		if want >= 1 && want <= maxAutoWorkers && got != want {
			t.Errorf("resolvePoolSize(0) = %d, want GOMAXPROCS/2 = %d", got, want)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunPool - Bounded worker pool
// ---------------------------------------------------------------------------

func TestRunPool(t *testing.T) {
	t.Parallel()

	t.Run("visits every index once", func(t *testing.T) {
		t.Parallel()

		const count = 50
		var mu sync.Mutex
		seen := make(map[int]int)

		runPool(context.Background(), 4, count,
			func(_ context.Context, i int) {
				mu.Lock()
				seen[i]++
				mu.Unlock()
			},
			func(i int, err error) { t.Errorf("skip(%d, %v) called on live context", i, err) },
		)

		if len(seen) != count {
			t.Fatalf("visited %d indices, want %d", len(seen), count)
		}
		for i, n := range seen {
			if n != 1 {
				t.Errorf("index %d visited %d times", i, n)
			}
		}
	})

	t.Run("respects size", func(t *testing.T) {
		t.Parallel()

		var running, peak atomic.Int32
		gate := make(chan struct{})
		var once sync.Once

		runPool(context.Background(), 2, 6,
			func(_ context.Context, _ int) {
				n := running.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				if n == 2 {
					once.Do(func() { close(gate) })
				}
				<-gate
				running.Add(-1)
			},
			func(int, error) {},
		)

		if got := peak.Load(); got != 2 {
			t.Errorf("peak concurrency = %d, want 2", got)
		}
	})

	t.Run("canceled context skips", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var ran, skipped atomic.Int32
		runPool(ctx, 3, 5,
			func(context.Context, int) { ran.Add(1) },
			func(_ int, err error) {
				if err != context.Canceled {
					t.Errorf("skip err = %v, want context.Canceled", err)
				}
				skipped.Add(1)
			},
		)

		if ran.Load() != 0 || skipped.Load() != 5 {
			t.Errorf("ran=%d skipped=%d, want 0 and 5", ran.Load(), skipped.Load())
		}
	})

	t.Run("zero count", func(t *testing.T) {
		t.Parallel()
		runPool(context.Background(), 4, 0,
			func(context.Context, int) { t.Error("fn called") },
			func(int, error) { t.Error("skip called") },
		)
	})
}
