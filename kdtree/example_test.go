package kdtree_test

import (
	"fmt"
	"sort"

	"dasa.cc/ranim/geom"
	"dasa.cc/ranim/kdtree"
)

func Example() {
	pts := []geom.Point{
		{X: -2, Y: -2}, {X: -1, Y: 1}, {X: 0, Y: 0},
		{X: 1, Y: 1}, {X: 2, Y: -2}, {X: 5, Y: 5},
	}
	tr := kdtree.New(pts, geom.Square(10))

	root := tr.Node(tr.Root())
	fmt.Println("root", root.Point, root.Axis)

	// neighbors of the origin, excluding the origin itself
	var idx []int
	for _, i := range tr.Query(geom.Point{}, 2, nil) {
		idx = append(idx, tr.Node(i).Index)
	}
	sort.Ints(idx)
	fmt.Println("neighbors", idx)

	// Output:
	// root {1 1} horizontal
	// neighbors [1 3]
}
