package merge

import "golang.org/x/exp/constraints"

// Search returns the smallest index i in [0, len(s)] for which f(v, s[i])
// holds, treating f(v, s[len(s)]) as true. The slice s must be partitioned
// by f: if f(v, s[i]) holds, then so does f(v, s[j]) for all j > i.
//
// With a strict ordering less, Search(s, v, less) is the upper bound of v,
// the index of the first element that belongs strictly after v. Passing
// func(a, b E) bool { return !less(b, a) } yields the lower bound, the
// index of the first element that does not belong before v.
func Search[E any](s []E, v E, f func(a, b E) bool) int {
	low, high := 0, len(s)
	for low < high {
		mid := int(uint(low+high) >> 1)
		if f(v, s[mid]) {
			high = mid
		} else {
			low = mid + 1
		}
	}
	return low
}

// SearchOrdered is Search with the < operator as ordering, returning the
// index of the first element of s that is greater than v.
func SearchOrdered[E constraints.Ordered](s []E, v E) int {
	return Search(s, v, func(a, b E) bool { return a < b })
}

func upperBound[E any](s []E, v E, less func(a, b E) bool) int {
	return Search(s, v, less)
}

func lowerBound[E any](s []E, v E, less func(a, b E) bool) int {
	return Search(s, v, func(a, b E) bool { return !less(b, a) })
}
