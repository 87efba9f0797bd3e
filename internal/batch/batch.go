package batch

import (
	"context"
	"sync"
	"time"
)

// Result is one task's settled outcome, stored at the task's start index so
// callers keep a stable slot per task regardless of completion order.
type Result[T any] struct {
	Value T
	Err   error
}

// Executor fans independent tasks out into fixed-size concurrent batches. A
// batch must fully settle, success or failure, before the next one starts,
// which bounds peak concurrency to Size outstanding tasks system-wide.
type Executor struct {
	// Size is the maximum number of concurrently running tasks.
	Size int
	// Pause is inserted between batches.
	Pause time.Duration
}

// Run executes n tasks through fn in batches. Task i's outcome lands in slot
// i of the returned slice. One task's failure never cancels its siblings;
// context cancellation stops scheduling further batches and marks unstarted
// tasks with the context error.
func Run[T any](ctx context.Context, ex Executor, n int, fn func(ctx context.Context, index int) (T, error)) []Result[T] {
	size := ex.Size
	if size <= 0 {
		size = 1
	}
	results := make([]Result[T], n)

	for start := 0; start < n; start += size {
		if err := ctx.Err(); err != nil {
			for i := start; i < n; i++ {
				results[i].Err = err
			}
			return results
		}

		end := start + size
		if end > n {
			end = n
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(index int) {
				defer wg.Done()
				value, err := fn(ctx, index)
				results[index] = Result[T]{Value: value, Err: err}
			}(i)
		}
		wg.Wait()

		if end < n && ex.Pause > 0 {
			timer := time.NewTimer(ex.Pause)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
	}
	return results
}
