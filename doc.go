// Package parray provides parallel building blocks for array-processing
// pipelines, such as parallel sorting or suffix-array based text
// factorization.
//
// Parray provides the following subpackages:
//
// parray/merge provides a parallel stable merge of two sorted slices under
// an arbitrary ordering predicate, as well as the partition search that it
// uses to find split points.
//
// parray/rmq provides a range-minimum-query structure that preprocesses an
// immutable slice in parallel and then answers queries for the index of the
// minimum element of a range in constant time.
//
// parray/parallel, parray/sequential, and parray/workerpool provide
// implementations of the Executor interface on which the algorithms in
// parray/merge and parray/rmq run: one goroutine per fork, strictly
// sequential execution for testing and debugging, and a persistent pool of
// worker goroutines respectively.
//
// parray/speculative provides parallel predicates that terminate early as
// soon as the final result is known.
//
// See http://supertech.csail.mit.edu/papers/steal.pdf for some theoretical
// background on fork/join parallelism, and
// https://mitpress.mit.edu/books/introduction-algorithms for the parallel
// merge algorithm.
package parray
