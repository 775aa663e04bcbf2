// Package internal holds the batching and fork/join plumbing shared by the
// executors. ComputeNofBatches decides how many batches a range is cut
// into, SplitBatch decides where each recursive split falls, and Fork joins
// both halves of a split, carrying panics across goroutines with WrapPanic.
package internal

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// ComputeNofBatches divides the size of the range (high - low) by n. If n is 0,
// a default is used that takes runtime.GOMAXPROCS(0) into account.
func ComputeNofBatches(low, high, n int) (batches int) {
	switch size := high - low; {
	case size > 0:
		switch {
		case n == 0:
			batches = 2 * runtime.GOMAXPROCS(0)
		case n > 0:
			batches = n
		default:
			panic(fmt.Sprintf("invalid number of batches: %v", n))
		}
		if batches > size {
			batches = size
		}
	case size == 0:
		batches = 1
	default:
		panic(fmt.Sprintf("invalid range: %v:%v", low, high))
	}
	return
}

// SplitBatch returns the start of the right half when the range from low to
// high is divided into n batches, of which the left half receives n/2. The
// result is >= high if the range cannot be split any further.
func SplitBatch(low, high, n int) (mid, half int) {
	batchSize := ((high - low - 1) / n) + 1
	half = n / 2
	mid = low + batchSize*half
	return
}

// Fork runs left in the calling goroutine and right in a new goroutine,
// and returns only when both have terminated. A panic in either is
// recovered and raised again after the join, the one from left taking
// precedence.
func Fork(left, right func()) {
	var pl, pr interface{}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer func() {
			pr = WrapPanic(recover())
			wg.Done()
		}()
		right()
	}()
	func() {
		defer func() {
			pl = WrapPanic(recover())
		}()
		left()
	}()
	wg.Wait()
	if pl != nil {
		panic(pl)
	}
	if pr != nil {
		panic(pr)
	}
}

type runtimeError struct{ error }

func (runtimeError) RuntimeError() {}

// WrapPanic adds stack trace information to a recovered panic.
func WrapPanic(p interface{}) interface{} {
	if p != nil {
		s := fmt.Sprintf("%v\n%s\nrethrown at", p, debug.Stack())
		if _, isError := p.(error); isError {
			r := errors.New(s)
			if _, isRuntimeError := p.(runtime.Error); isRuntimeError {
				return runtimeError{r}
			}
			return r
		}
		return s
	}
	return nil
}
