package set_test

import (
	"fmt"

	"dasa.cc/ranim/set"
)

func Example() {
	// neighbors of a node, kept sorted and distinct
	a := set.Of(7, 2, 9, 2)
	a.Insert(4)
	a.Replace(9, 11)

	fmt.Println(a)
	fmt.Println("has 9", a.Has(9))

	// Output:
	// [2 4 7 11]
	// has 9 false
}
