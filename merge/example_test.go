package merge_test

import (
	"fmt"

	"github.com/exascience/parray/merge"
)

type entry struct {
	Key   int
	Value string
}

func Example() {
	s1 := []entry{{1, "a"}, {3, "b"}, {5, "c"}}
	s2 := []entry{{2, "x"}, {3, "y"}, {6, "z"}}
	r := make([]entry, len(s1)+len(s2))

	merge.Merge(s1, s2, r, func(a, b entry) bool { return a.Key < b.Key })
	fmt.Println(r)

	// Output:
	// [{1 a} {2 x} {3 b} {3 y} {5 c} {6 z}]
}

func ExampleSearch() {
	s := []int{1, 3, 3, 3, 7}
	less := func(a, b int) bool { return a < b }
	lessOrEqual := func(a, b int) bool { return !less(b, a) }

	fmt.Println(merge.Search(s, 3, less))
	fmt.Println(merge.Search(s, 3, lessOrEqual))

	// Output:
	// 4
	// 1
}
