package workerpool

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/exascience/parray"
)

var _ parray.Executor = (*Pool)(nil)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", pool.NumWorkers())
	}
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	if pool.NumWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), runtime.GOMAXPROCS(0))
	}
}

func TestDo(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	for _, n := range []int{0, 1, 2, 5, 100} {
		results := make([]int32, n)
		thunks := make([]func(), n)
		for i := range thunks {
			i := i
			thunks[i] = func() { atomic.AddInt32(&results[i], 1) }
		}
		pool.Do(thunks...)
		for i, r := range results {
			assert.Equal(t, int32(1), r, "thunk %d of %d", i, n)
		}
	}
}

func TestDoNested(t *testing.T) {
	// fewer workers than concurrently waiting forks
	pool := New(2)
	defer pool.Close()

	var fib func(int) int
	fib = func(n int) int {
		if n < 2 {
			return n
		}
		var n1, n2 int
		pool.Do(
			func() { n1 = fib(n - 1) },
			func() { n2 = fib(n - 2) },
		)
		return n1 + n2
	}

	if got := fib(20); got != 6765 {
		t.Errorf("fib(20) = %d, want 6765", got)
	}
}

func TestDoPanic(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	assert.Panics(t, func() {
		pool.Do(func() {}, func() { panic("second") }, func() {})
	})

	// the pool stays usable
	var count atomic.Int32
	pool.Do(func() { count.Add(1) }, func() { count.Add(1) })
	assert.Equal(t, int32(2), count.Load())
}

func TestDoPanicAfterJoin(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	var finished atomic.Int32
	sibling := func() {
		time.Sleep(50 * time.Millisecond)
		finished.Add(1)
	}
	assert.Panics(t, func() {
		pool.Do(func() { panic("first") }, sibling, sibling)
	})
	assert.Equal(t, int32(2), finished.Load())

	pool.Close()
	finished.Store(0)
	assert.Panics(t, func() {
		pool.Do(func() { panic("first") }, sibling, sibling)
	})
	assert.Equal(t, int32(2), finished.Load())
}

func TestRange(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	for _, batches := range []int{0, 1, 3, 16, 1000} {
		n := 100
		results := make([]int, n)

		pool.Range(0, n, batches, func(start, end int) {
			for i := start; i < end; i++ {
				results[i] = i * 2
			}
		})

		for i := 0; i < n; i++ {
			if results[i] != i*2 {
				t.Errorf("results[%d] = %d, want %d with %d batches", i, results[i], i*2, batches)
			}
		}
	}

	assert.Panics(t, func() { pool.Range(1, 0, 0, func(int, int) {}) })
	assert.Panics(t, func() { pool.Range(0, 1, -1, func(int, int) {}) })
}

func TestClosedPool(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close()

	var count atomic.Int32
	pool.Do(func() { count.Add(1) }, func() { count.Add(1) }, func() { count.Add(1) })
	assert.Equal(t, int32(3), count.Load())

	sum := 0
	pool.Range(0, 10, 0, func(start, end int) {
		for i := start; i < end; i++ {
			sum += i
		}
	})
	assert.Equal(t, 45, sum)
}

func BenchmarkDo(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	var count atomic.Int64
	thunk := func() { count.Add(1) }
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Do(thunk, thunk, thunk, thunk)
	}
}
