// Package workers runs independent evaluations in parallel while keeping
// results in input order.
package workers

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// WorkerPool manages a pool of worker goroutines for parallel evaluation
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// Non-positive values default to the number of CPUs.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		numWorkers: numWorkers,
	}
}

// NumWorkers returns the configured pool size
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// jobItem represents a single evaluation job
type jobItem[T any] struct {
	index int
	input T
}

// resultItem represents the result of an evaluation job
type resultItem[R any] struct {
	index  int
	result R
}

// Map evaluates fn over every input in parallel and returns the results in
// the same order as inputs. fn must not share mutable state between calls.
// A nil pool evaluates sequentially. A panic in fn is re-raised on the
// calling goroutine once every input has been processed.
func Map[T, R any](wp *WorkerPool, inputs []T, fn func(T) R) []R {
	n := len(inputs)
	if n == 0 {
		return []R{}
	}

	out := make([]R, n)
	if wp == nil || wp.numWorkers == 1 || n == 1 {
		for i, in := range inputs {
			out[i] = fn(in)
		}
		return out
	}

	jobs := make(chan jobItem[T], n)
	results := make(chan resultItem[R], n)

	numActualWorkers := wp.numWorkers
	if n < numActualWorkers {
		numActualWorkers = n // Don't spawn more workers than jobs
	}

	var (
		wg        sync.WaitGroup
		panicOnce sync.Once
		panicked  *workerPanic
	)
	call := func(in T) (r R) {
		defer func() {
			if v := recover(); v != nil {
				panicOnce.Do(func() { panicked = &workerPanic{value: v, stack: debug.Stack()} })
			}
		}()
		return fn(in)
	}

	for i := 0; i < numActualWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- resultItem[R]{index: job.index, result: call(job.input)}
			}
		}()
	}

	for idx, in := range inputs {
		jobs <- jobItem[T]{index: idx, input: in}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		out[r.index] = r.result
	}

	if panicked != nil {
		panic(panicked)
	}
	return out
}

// workerPanic carries a panic out of a worker goroutine
type workerPanic struct {
	value interface{}
	stack []byte
}

func (p *workerPanic) Error() string {
	return fmt.Sprintf("worker panic: %v\n%s", p.value, p.stack)
}
