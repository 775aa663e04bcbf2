/*
Package rmq provides range-minimum queries over an immutable slice.

New preprocesses the slice into a sparse table of block minima: level 0
holds the index of the minimum of every block, and level k holds the
index of the minimum of the 2^k consecutive blocks starting at each
block. Every level is computed in parallel from the previous one.

Query then answers in constant time with at most two partial-block scans
and two overlapping table lookups. Of several equal minima, Query always
returns the left-most index.
*/
package rmq

import (
	"fmt"
	"math/bits"

	"golang.org/x/exp/constraints"

	"github.com/exascience/parray"
	"github.com/exascience/parray/parallel"
)

// DefaultBlockSize is the default number of elements per block.
const DefaultBlockSize = 1

type options struct {
	blockSize  int
	executor   parray.Executor
	tableCheck bool
}

// Option configures New.
type Option func(*options)

// WithBlockSize sets the number of consecutive elements that form a block.
// Larger blocks shrink the table at the cost of longer partial-block scans
// per query. The block size affects performance only, never the result.
// WithBlockSize panics if size <= 0.
func WithBlockSize(size int) Option {
	if size <= 0 {
		panic(fmt.Sprintf("invalid block size: %v", size))
	}
	return func(opts *options) {
		opts.blockSize = size
	}
}

// WithExecutor sets the executor that runs the construction. The default
// is parallel.Executor.
func WithExecutor(executor parray.Executor) Option {
	return func(opts *options) {
		opts.executor = executor
	}
}

// WithTableCheck makes every table lookup of Query verify that the looked
// up entry covers only existing blocks. Trailing entries of each level
// are copies that cover fewer blocks than their level implies; Query must
// never read them. Meant for testing.
func WithTableCheck() Option {
	return func(opts *options) {
		opts.tableCheck = true
	}
}

// RMQ answers range-minimum queries over a slice. An RMQ is safe for
// concurrent use by multiple goroutines, as long as the underlying slice
// is not modified.
type RMQ[E any] struct {
	a          []E
	less       func(x, y E) bool
	blockSize  int
	blocks     int
	table      [][]int
	tableCheck bool
}

// New preprocesses a for range-minimum queries under the ordering less,
// which reports whether x is strictly smaller than y. The RMQ keeps a
// reference to a, which must not be modified while the RMQ is in use.
func New[E any](a []E, less func(x, y E) bool, opts ...Option) *RMQ[E] {
	o := &options{
		blockSize: DefaultBlockSize,
		executor:  parallel.Executor{},
	}
	for _, opt := range opts {
		opt(o)
	}
	r := &RMQ[E]{
		a:          a,
		less:       less,
		blockSize:  o.blockSize,
		blocks:     (len(a) + o.blockSize - 1) / o.blockSize,
		tableCheck: o.tableCheck,
	}
	r.precompute(o.executor)
	return r
}

// NewOrdered is New with the < operator as ordering.
func NewOrdered[E constraints.Ordered](a []E, opts ...Option) *RMQ[E] {
	return New(a, func(x, y E) bool { return x < y }, opts...)
}

func (r *RMQ[E]) precompute(executor parray.Executor) {
	m := r.blocks
	depth := bits.Len(uint(m))
	r.table = make([][]int, depth)
	if depth == 0 {
		return
	}
	for k := range r.table {
		r.table[k] = make([]int, m)
	}

	a, less, bs := r.a, r.less, r.blockSize
	level := r.table[0]
	executor.Range(0, m, 0, func(low, high int) {
		for b := low; b < high; b++ {
			start := b * bs
			end := min(start+bs, len(a))
			k := start
			for j := start + 1; j < end; j++ {
				if less(a[j], a[k]) {
					k = j
				}
			}
			level[b] = k
		}
	})

	// Range returns only when the whole level is written, so the next
	// level can read it.
	for k, dist := 1, 1; k < depth; k, dist = k+1, dist*2 {
		prev, cur := r.table[k-1], r.table[k]
		executor.Range(0, m, 0, func(low, high int) {
			for i := low; i < high; i++ {
				switch {
				case i+dist >= m:
					cur[i] = prev[i]
				case less(a[prev[i+dist]], a[prev[i]]):
					cur[i] = prev[i+dist]
				default:
					cur[i] = prev[i]
				}
			}
		})
	}
}

// Len returns the length of the underlying slice.
func (r *RMQ[E]) Len() int { return len(r.a) }

// BlockSize returns the number of elements per block.
func (r *RMQ[E]) BlockSize() int { return r.blockSize }

// Depth returns the number of levels of the sparse table.
func (r *RMQ[E]) Depth() int { return len(r.table) }

// lookup returns the table entry for the 2^k blocks starting at block i.
func (r *RMQ[E]) lookup(k, i int) int {
	if r.tableCheck && i+(1<<k) > r.blocks {
		panic(fmt.Sprintf("rmq: table entry %v:%v covers blocks beyond %v", k, i, r.blocks))
	}
	return r.table[k][i]
}

// span returns the index of the left-most minimum of blocks first to last.
func (r *RMQ[E]) span(first, last int) int {
	switch last - first {
	case 0:
		return r.lookup(0, first)
	case 1:
		return r.lookup(1, first)
	}
	k := bits.Len(uint(last-first+1)) - 1
	x, y := r.lookup(k, first), r.lookup(k, last+1-(1<<k))
	if r.less(r.a[y], r.a[x]) {
		return y
	}
	return x
}

// scan returns the index of the left-most minimum of a[i:j+1].
func (r *RMQ[E]) scan(i, j int) int {
	best := i
	for k := i + 1; k <= j; k++ {
		if r.less(r.a[k], r.a[best]) {
			best = k
		}
	}
	return best
}

// Query returns the index of the left-most minimum of the elements with
// indices i through j, inclusive.
//
// Query panics unless 0 <= i <= j < r.Len().
func (r *RMQ[E]) Query(i, j int) int {
	if i < 0 || j < i || j >= len(r.a) {
		panic(fmt.Sprintf("invalid range: %v:%v", i, j))
	}
	bs := r.blockSize
	if j-i < bs {
		return r.scan(i, j)
	}

	blockI, blockJ := i/bs, j/bs
	best := r.scan(i, (blockI+1)*bs-1)
	head := r.scan(blockJ*bs, j)
	if blockJ > blockI+1 {
		if inner := r.span(blockI+1, blockJ-1); r.less(r.a[inner], r.a[best]) {
			best = inner
		}
	}
	if r.less(r.a[head], r.a[best]) {
		return head
	}
	return best
}
