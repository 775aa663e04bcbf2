package sequential_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exascience/parray"
	"github.com/exascience/parray/parallel"
	"github.com/exascience/parray/sequential"
)

var _ parray.Executor = sequential.Executor{}

func TestDoOrder(t *testing.T) {
	var order []int
	sequential.Do(
		func() { order = append(order, 0) },
		func() { order = append(order, 1) },
		func() { order = append(order, 2) },
	)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestRangeMatchesParallel(t *testing.T) {
	for _, batches := range []int{1, 2, 3, 8, 33} {
		var seq [][2]int
		sequential.Range(0, 100, batches, func(low, high int) {
			seq = append(seq, [2]int{low, high})
		})

		par := make(map[[2]int]bool)
		ch := make(chan [2]int, 100)
		parallel.Range(0, 100, batches, func(low, high int) {
			ch <- [2]int{low, high}
		})
		close(ch)
		for b := range ch {
			par[b] = true
		}

		assert.Len(t, par, len(seq))
		next := 0
		for _, b := range seq {
			assert.Equal(t, next, b[0])
			assert.True(t, par[b], "batch %v with %v batches", b, batches)
			next = b[1]
		}
		assert.Equal(t, 100, next)
	}
}

func TestRangeInvalid(t *testing.T) {
	assert.Panics(t, func() { sequential.Range(1, 0, 0, func(int, int) {}) })
	assert.Panics(t, func() { sequential.Range(0, 1, -2, func(int, int) {}) })
}
