// Package sequential provides sequential implementations of the
// functions provided by the parallel package. This is useful for
// testing and debugging: an algorithm that runs on Executor produces
// the same result as on any parallel executor, but in a single
// goroutine and in a deterministic order.
//
// It is not recommended to use the implementations of this package
// for any other purpose, because they are almost certainly too
// inefficient for regular sequential programs.
package sequential

import (
	"fmt"

	"github.com/exascience/parray/internal"
)

// Do receives zero or more thunks and executes them sequentially,
// from left to right.
func Do(thunks ...func()) {
	for _, thunk := range thunks {
		thunk()
	}
}

// Range receives a range, a batch count n, and a range function f,
// divides the range into batches, and invokes the range function for
// each of these batches sequentially, covering the half-open interval
// from low to high, including low but excluding high.
//
// The range is specified by a low and high integer, with low <=
// high. The batches are determined by dividing up the size of the
// range (high - low) by n. If n is 0, a reasonable default is used
// that takes runtime.GOMAXPROCS(0) into account.
//
// Range panics if high < low, or if n < 0.
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
			recur(low, mid, half)
			recur(mid, high, n-half)
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
