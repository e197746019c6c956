package main

import (
	"context"
	"runtime"
	"sync"
)

// maxAutoWorkers caps the GOMAXPROCS-derived pool size.
const maxAutoWorkers = 8

// resolvePoolSize determines the optimal pool size.
// Priority: explicit setting > GOMAXPROCS-based calculation.
func resolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	n := runtime.GOMAXPROCS(0) / 2

	if n < 1 {
		return 1
	}
	if n > maxAutoWorkers {
		return maxAutoWorkers
	}
	return n
}

// runPool calls fn for every index in [0, count) using at most size
// goroutines. Indices not yet started when ctx is canceled are passed to
// skip instead. runPool returns once every index has been handled.
func runPool(ctx context.Context, size, count int, fn func(ctx context.Context, i int), skip func(i int, err error)) {
	if count == 0 {
		return
	}
	if size > count {
		size = count
	}
	if size < 1 {
		size = 1
	}

	jobs := make(chan int, count)
	for i := 0; i < count; i++ {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < size; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					skip(i, err)
					continue
				}
				fn(ctx, i)
			}
		}()
	}
	wg.Wait()
}
