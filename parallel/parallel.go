// Package parallel provides functions for expressing parallel
// algorithms.
//
// Do and Range fork one goroutine per split and join on a
// sync.WaitGroup. Executor bundles them as a parray.Executor, and is the
// default executor of the merge and rmq packages.
package parallel

import (
	"fmt"

	"github.com/exascience/parray/internal"
)

// Do receives zero or more thunks and executes them in parallel.
//
// Each thunk is invoked in its own goroutine, and Do returns only
// when all thunks have terminated.
//
// If one or more thunks panic, the panics are recovered, and Do
// panics with the left-most recovered panic value once all thunks
// have terminated.
func Do(thunks ...func()) {
	switch len(thunks) {
	case 0:
	case 1:
		thunks[0]()
	case 2:
		internal.Fork(thunks[0], thunks[1])
	default:
		half := len(thunks) / 2
		internal.Fork(
			func() { Do(thunks[:half]...) },
			func() { Do(thunks[half:]...) },
		)
	}
}

// Range receives a range, a batch count n, and a range function f,
// divides the range into batches, and invokes the range function for
// each of these batches in parallel, covering the half-open interval
// from low to high, including low but excluding high.
//
// The range is specified by a low and high integer, with low <=
// high. The batches are determined by dividing up the size of the
// range (high - low) by n. If n is 0, a reasonable default is used
// that takes runtime.GOMAXPROCS(0) into account.
//
// The range function is invoked for each batch in its own goroutine,
// with 0 <= low <= high, and Range returns only when all range
// functions have terminated.
//
// Range panics if high < low, or if n < 0.
//
// If one or more range function invocations panic, the panics are
// recovered, and Range panics with the left-most recovered panic
// value once all range functions have terminated.
func Range(low, high, n int, f func(low, high int)) {
	var recur func(int, int, int)
	recur = func(low, high, n int) {
		switch {
		case n == 1:
			f(low, high)
		case n > 1:
			mid, half := internal.SplitBatch(low, high, n)
			if mid >= high {
				f(low, high)
				return
			}
			internal.Fork(
				func() { recur(low, mid, half) },
				func() { recur(mid, high, n-half) },
			)
		default:
			panic(fmt.Sprintf("invalid number of batches: %v", n))
		}
	}
	recur(low, high, internal.ComputeNofBatches(low, high, n))
}

// Executor implements parray.Executor with Do and Range.
type Executor struct{}

// Do calls the package-level Do.
func (Executor) Do(thunks ...func()) { Do(thunks...) }

// Range calls the package-level Range.
func (Executor) Range(low, high, n int, f func(low, high int)) { Range(low, high, n, f) }
