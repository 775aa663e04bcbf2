package parray

// An Executor runs independent units of work and waits for all of them to
// complete. It is the only concurrency primitive the algorithms in this
// module depend on.
//
// Units of work submitted in a single call must not write to overlapping
// memory. Implementations may run them in any order and in any number of
// goroutines, including the calling goroutine only.
type Executor interface {
	// Do executes the thunks and returns when all of them have
	// terminated. If one or more thunks panic, Do panics with the
	// left-most panic value, but only after all thunks have terminated.
	Do(thunks ...func())

	// Range divides the half-open interval from low to high into at most
	// n batches and invokes f once per batch, returning when all
	// invocations have terminated. If n is 0, a reasonable default is
	// used. Range panics if high < low, or if n < 0.
	Range(low, high, n int, f func(low, high int))
}
