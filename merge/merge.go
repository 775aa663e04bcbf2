/*
Package merge provides a parallel stable merge of two sorted slices.

Merge splits the longer input at its midpoint, finds the matching split
point in the shorter input with Search, and merges both halves in
parallel into disjoint parts of the output. Chunked splits the longer
input into fixed-size chunks instead, searches all chunk boundaries in
parallel, and then merges all chunks in parallel, which trades recursion
depth for a flat fan-out.

Both are stable: when two elements are equivalent under the ordering,
the element from the first input is placed before the element from the
second input, no matter which input gets split.
*/
package merge

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/exp/constraints"

	"github.com/exascience/parray"
	"github.com/exascience/parray/parallel"
	"github.com/exascience/parray/speculative"
)

const (
	// DefaultThreshold is the combined input length up to which merges
	// are performed sequentially.
	DefaultThreshold = 8192

	// DefaultChunkSize is the chunk size of Chunked.
	DefaultChunkSize = DefaultThreshold / 4
)

type options struct {
	threshold   int
	chunkSize   int
	executor    parray.Executor
	sortedCheck bool
}

// Option configures Merge and Chunked.
type Option func(*options)

// WithThreshold sets the combined input length up to which a merge is
// performed sequentially. Use math.MaxInt to always merge sequentially,
// and 0 to split as long as both inputs are non-empty. The threshold
// affects performance only, never the result.
func WithThreshold(threshold int) Option {
	return func(opts *options) {
		opts.threshold = threshold
	}
}

// WithChunkSize sets the chunk size of Chunked. It panics if size <= 0.
func WithChunkSize(size int) Option {
	if size <= 0 {
		panic(fmt.Sprintf("invalid chunk size: %v", size))
	}
	return func(opts *options) {
		opts.chunkSize = size
	}
}

// WithExecutor sets the executor that runs parallel work. The default is
// parallel.Executor.
func WithExecutor(executor parray.Executor) Option {
	return func(opts *options) {
		opts.executor = executor
	}
}

// WithSortedCheck makes Merge and Chunked verify, in parallel, that both
// inputs are sorted before merging, and panic if they are not.
func WithSortedCheck() Option {
	return func(opts *options) {
		opts.sortedCheck = true
	}
}

func makeOptions(opts []Option) *options {
	o := &options{
		threshold: DefaultThreshold,
		chunkSize: DefaultChunkSize,
		executor:  parallel.Executor{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func checkArguments[E any](s1, s2, r []E, less func(a, b E) bool, o *options) {
	if len(r) != len(s1)+len(s2) {
		panic(fmt.Sprintf("merge: output length %v, want %v", len(r), len(s1)+len(s2)))
	}
	if o.sortedCheck {
		if !isSorted(s1, less) {
			panic("merge: first input is not sorted")
		}
		if !isSorted(s2, less) {
			panic("merge: second input is not sorted")
		}
	}
}

func isSorted[E any](s []E, less func(a, b E) bool) bool {
	if len(s) < 2 {
		return true
	}
	var done atomic.Bool
	defer done.Store(true)
	return speculative.RangeAnd(1, len(s), 0, func(low, high int) bool {
		for i := low; i < high; i++ {
			if ((i % 1024) == 0) && done.Load() {
				return false
			}
			if less(s[i], s[i-1]) {
				return false
			}
		}
		return true
	})
}

// sMerge merges s1 and s2 into r in a single goroutine. It takes from s2
// only if the head of s2 belongs strictly before the head of s1.
func sMerge[E any](s1, s2, r []E, less func(a, b E) bool) {
	i, j, k := 0, 0, 0
	for i < len(s1) && j < len(s2) {
		if less(s2[j], s1[i]) {
			r[k] = s2[j]
			j++
		} else {
			r[k] = s1[i]
			i++
		}
		k++
	}
	k += copy(r[k:], s1[i:])
	copy(r[k:], s2[j:])
}

func pMerge[E any](s1, s2, r []E, less func(a, b E) bool, o *options) {
	l1, l2 := len(s1), len(s2)
	if l1+l2 <= o.threshold || l1 == 0 || l2 == 0 {
		sMerge(s1, s2, r, less)
		return
	}
	if l1 >= l2 {
		// elements of s2 equivalent to the pivot go to the right
		m1 := l1 / 2
		m2 := lowerBound(s2, s1[m1], less)
		q := m1 + m2
		r[q] = s1[m1]
		o.executor.Do(
			func() { pMerge(s1[:m1], s2[:m2], r[:q], less, o) },
			func() { pMerge(s1[m1+1:], s2[m2:], r[q+1:], less, o) },
		)
	} else {
		// elements of s1 equivalent to the pivot go to the left
		m2 := l2 / 2
		m1 := upperBound(s1, s2[m2], less)
		q := m1 + m2
		r[q] = s2[m2]
		o.executor.Do(
			func() { pMerge(s1[:m1], s2[:m2], r[:q], less, o) },
			func() { pMerge(s1[m1:], s2[m2+1:], r[q+1:], less, o) },
		)
	}
}

// Merge merges the sorted slices s1 and s2 into r, which must have length
// len(s1)+len(s2). The function less reports whether a belongs strictly
// before b, and must be a strict weak ordering under which both s1 and s2
// are sorted.
//
// Merge is stable: of two equivalent elements, the one from s1 is placed
// first. Each position of r is written exactly once, and r must not
// overlap s1 or s2.
//
// Merge panics if len(r) != len(s1)+len(s2). The result is undefined if
// s1 or s2 are not sorted, unless WithSortedCheck is given.
func Merge[E any](s1, s2, r []E, less func(a, b E) bool, opts ...Option) {
	o := makeOptions(opts)
	checkArguments(s1, s2, r, less, o)
	pMerge(s1, s2, r, less, o)
}

// MergeOrdered is Merge with the < operator as ordering.
func MergeOrdered[E constraints.Ordered](s1, s2, r []E, opts ...Option) {
	Merge(s1, s2, r, func(a, b E) bool { return a < b }, opts...)
}

// Chunked has the same contract as Merge, but splits the longer of s1 and
// s2 into chunks of the configured chunk size. It determines the split
// points of all chunk boundaries in the shorter input in parallel, and
// then merges all chunk pairs sequentially, also in parallel.
//
// Chunked is preferable to Merge when one input is much longer than the
// other.
func Chunked[E any](s1, s2, r []E, less func(a, b E) bool, opts ...Option) {
	o := makeOptions(opts)
	checkArguments(s1, s2, r, less, o)
	if len(s1)+len(s2) <= o.threshold || len(s1) == 0 || len(s2) == 0 {
		sMerge(s1, s2, r, less)
		return
	}

	long, short := s1, s2
	swapped := len(s2) > len(s1)
	if swapped {
		long, short = s2, s1
	}
	size := o.chunkSize
	chunks := (len(long) + size - 1) / size

	// pos[c] is the start of chunk c's counterpart in short
	pos := make([]int, chunks+1)
	pos[chunks] = len(short)
	o.executor.Range(1, chunks, 0, func(low, high int) {
		for c := low; c < high; c++ {
			if swapped {
				pos[c] = upperBound(short, long[c*size], less)
			} else {
				pos[c] = lowerBound(short, long[c*size], less)
			}
		}
	})

	o.executor.Range(0, chunks, 0, func(low, high int) {
		for c := low; c < high; c++ {
			start, end := c*size, min((c+1)*size, len(long))
			l, s := long[start:end], short[pos[c]:pos[c+1]]
			out := r[start+pos[c] : end+pos[c+1]]
			if swapped {
				sMerge(s, l, out, less)
			} else {
				sMerge(l, s, out, less)
			}
		}
	})
}

// ChunkedOrdered is Chunked with the < operator as ordering.
func ChunkedOrdered[E constraints.Ordered](s1, s2, r []E, opts ...Option) {
	Chunked(s1, s2, r, func(a, b E) bool { return a < b }, opts...)
}
