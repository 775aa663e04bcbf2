package internal

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeNofBatches(t *testing.T) {
	assert.Equal(t, 1, ComputeNofBatches(5, 5, 0))
	assert.Equal(t, 1, ComputeNofBatches(5, 5, 7))
	assert.Equal(t, 4, ComputeNofBatches(0, 100, 4))
	assert.Equal(t, 3, ComputeNofBatches(0, 3, 10))
	assert.Equal(t, min(2*runtime.GOMAXPROCS(0), 1000), ComputeNofBatches(0, 1000, 0))

	assert.Panics(t, func() { ComputeNofBatches(0, 10, -1) })
	assert.Panics(t, func() { ComputeNofBatches(10, 0, 1) })
}

func TestSplitBatch(t *testing.T) {
	mid, half := SplitBatch(0, 10, 2)
	assert.Equal(t, 5, mid)
	assert.Equal(t, 1, half)

	mid, half = SplitBatch(0, 10, 3)
	assert.Equal(t, 4, mid)
	assert.Equal(t, 1, half)

	mid, _ = SplitBatch(0, 1, 2)
	assert.GreaterOrEqual(t, mid, 1)
}

func TestWrapPanic(t *testing.T) {
	assert.Nil(t, WrapPanic(nil))

	s, ok := WrapPanic("boom").(string)
	assert.True(t, ok)
	assert.Contains(t, s, "boom")
	assert.Contains(t, s, "rethrown at")

	var p interface{}
	func() {
		defer func() { p = WrapPanic(recover()) }()
		var s []int
		_ = s[1]
	}()
	_, isRuntimeError := p.(runtime.Error)
	assert.True(t, isRuntimeError)
}

func TestFork(t *testing.T) {
	var left, right atomic.Bool
	Fork(func() { left.Store(true) }, func() { right.Store(true) })
	assert.True(t, left.Load())
	assert.True(t, right.Load())

	right.Store(false)
	assert.Panics(t, func() {
		Fork(func() { panic("left") }, func() {
			time.Sleep(50 * time.Millisecond)
			right.Store(true)
		})
	})
	assert.True(t, right.Load())

	var p interface{}
	func() {
		defer func() { p = recover() }()
		Fork(func() { panic("left") }, func() { panic("right") })
	}()
	assert.True(t, strings.HasPrefix(fmt.Sprint(p), "left"))
}
