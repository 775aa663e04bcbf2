// Package workerpool provides a persistent, reusable worker pool that
// implements parray.Executor. Unlike the parallel package, which spawns a
// goroutine per fork, a Pool is created once and reused across many merges
// and RMQ constructions.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	for _, run := range runs {
//	    merge.Merge(run.a, run.b, run.out, less, merge.WithExecutor(pool))
//	}
//
// Work items may fork further work on the same pool. A goroutine that waits
// for its forked work executes queued work items in the meantime, so nested
// fork/join, as in the recursive merge, cannot exhaust the workers.
package workerpool

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/exascience/parray/internal"
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan func()
	closeOnce  sync.Once
	closed     atomic.Bool
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan func(), numWorkers*2),
	}

	for i := 0; i < numWorkers; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	for task := range p.workC {
		task()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe. Close must not be called while a
// Do or Range on the same pool is still running; after Close, Do and Range
// execute sequentially in the calling goroutine.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// join tracks the outstanding work items of a single Do.
type join struct {
	pending atomic.Int64
	done    chan struct{}

	mu     sync.Mutex
	panicI int
	panicV interface{}
}

func (j *join) fail(i int, p interface{}) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.panicV == nil || i < j.panicI {
		j.panicI, j.panicV = i, p
	}
}

func (j *join) finish() {
	if j.pending.Add(-1) == 0 {
		close(j.done)
	}
}

// Do executes the thunks on the pool and returns when all of them have
// terminated. The first thunk runs in the calling goroutine. Thunks that
// cannot be queued because the pool is saturated also run in the calling
// goroutine.
//
// If one or more thunks panic, Do panics with the left-most recovered
// panic value once all thunks have terminated.
func (p *Pool) Do(thunks ...func()) {
	if len(thunks) == 0 {
		return
	}
	if len(thunks) == 1 {
		thunks[0]()
		return
	}
	if p.closed.Load() {
		var first interface{}
		for _, thunk := range thunks {
			func() {
				defer func() {
					if r := recover(); r != nil && first == nil {
						first = internal.WrapPanic(r)
					}
				}()
				thunk()
			}()
		}
		if first != nil {
			panic(first)
		}
		return
	}

	j := &join{done: make(chan struct{})}
	j.pending.Store(int64(len(thunks) - 1))
	for i, thunk := range thunks[1:] {
		i, thunk := i+1, thunk
		task := func() {
			defer func() {
				if r := recover(); r != nil {
					j.fail(i, internal.WrapPanic(r))
				}
				j.finish()
			}()
			thunk()
		}
		select {
		case p.workC <- task:
		default:
			task()
		}
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				j.fail(0, internal.WrapPanic(r))
			}
		}()
		thunks[0]()
	}()
	p.wait(j)

	if j.panicV != nil {
		panic(j.panicV)
	}
}

// wait blocks until all work items of j have terminated, executing queued
// work items of any join in the meantime.
func (p *Pool) wait(j *join) {
	for {
		select {
		case <-j.done:
			return
		case task, ok := <-p.workC:
			if !ok {
				<-j.done
				return
			}
			task()
		}
	}
}

// Range receives a range, a batch count n, and a range function f,
// divides the range into batches, and invokes the range function for
// each of these batches on the pool, covering the half-open interval
// from low to high. The batches are the same as those of parallel.Range.
// If n is 0, the number of workers of the pool is used.
//
// Range panics if high < low, or if n < 0.
func (p *Pool) Range(low, high, n int, f func(low, high int)) {
	if n == 0 {
		n = p.numWorkers
	}
	var thunks []func()
	var recur func(int, int, int)
	recur = func(low, high, n int) {
		switch {
		case n == 1:
			thunks = append(thunks, func() { f(low, high) })
		case n > 1:
			mid, half := internal.SplitBatch(low, high, n)
			if mid >= high {
				thunks = append(thunks, func() { f(low, high) })
				return
			}
			recur(low, mid, half)
			recur(mid, high, n-half)
		default:
			panic(fmt.Sprintf("invalid number of batches: %v", n))
		}
	}
	recur(low, high, internal.ComputeNofBatches(low, high, n))
	p.Do(thunks...)
}
