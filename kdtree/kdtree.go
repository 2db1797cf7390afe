// Package kdtree provides a balanced two dimensional k-d tree built by
// repeated median partition, and a radius bounded neighbor query.
//
// Trees are meant to be rebuilt from scratch whenever the indexed points
// move; Build reuses the storage of a previous tree so the per step cost is
// the partitioning alone.
package kdtree

import (
	"dasa.cc/ranim/geom"

	gkd "gonum.org/v1/gonum/spatial/kdtree"
)

// Axis is the coordinate a node splits its bounds on.
type Axis uint8

const (
	// Horizontal nodes split on x; the split line is vertical.
	Horizontal Axis = iota
	// Vertical nodes split on y.
	Vertical
)

// Flip returns the axis used by children of a node split on a.
func (a Axis) Flip() Axis { return a ^ 1 }

// Coord returns the coordinate of p along a.
func (a Axis) Coord(p geom.Point) float64 {
	if a == Horizontal {
		return p.X
	}
	return p.Y
}

// Split clips b at v along a.
func (a Axis) Split(b geom.Bounds, v float64) (lo, hi geom.Bounds) {
	if a == Horizontal {
		return geom.SplitX(b, v)
	}
	return geom.SplitY(b, v)
}

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// None marks an absent child.
const None = -1

// Node is a single tree node. Left and Right index into the owning tree's
// nodes or are None.
type Node struct {
	Point geom.Point
	// Index is the position of Point in the slice given to Build.
	Index  int
	Bounds geom.Bounds
	Axis   Axis
	Left   int
	Right  int
}

// Leaf reports whether n has no children.
func (n Node) Leaf() bool { return n.Left == None && n.Right == None }

// Tree is a k-d tree over a fixed set of points. The zero value is an empty
// tree ready for Build.
type Tree struct {
	nodes []Node
	perm  []int
	work  []span
}

// span is a pending node whose median has been placed at perm[mid]; its
// children partition perm[lo:mid] and perm[mid+1:hi].
type span struct {
	node        int
	lo, mid, hi int
}

// New builds a tree over points clipped to bounds.
func New(points []geom.Point, bounds geom.Bounds) *Tree {
	t := &Tree{}
	t.Build(points, bounds)
	return t
}

// Build discards the current contents and indexes points. The first split
// is Horizontal and axes alternate with depth. The slice is not reordered.
// Bounds are grown as needed to cover every point so that each node's bounds
// contain its whole subtree.
//
// For a fixed input order the resulting tree is always the same.
func (t *Tree) Build(points []geom.Point, bounds geom.Bounds) {
	n := len(points)
	t.nodes = t.nodes[:0]
	t.work = t.work[:0]
	if cap(t.perm) < n {
		t.perm = make([]int, n)
	}
	t.perm = t.perm[:n]
	for i := range t.perm {
		t.perm[i] = i
	}
	if cap(t.nodes) < n {
		t.nodes = make([]Node, 0, n)
	}
	if n == 0 {
		return
	}
	if b, ok := geom.BoundsOf(points); ok {
		bounds = geom.Union(bounds, b)
	}

	t.place(points, 0, n, Horizontal, bounds)
	for len(t.work) != 0 {
		s := t.work[len(t.work)-1]
		t.work = t.work[:len(t.work)-1]

		nd := t.nodes[s.node]
		lb, rb := nd.Axis.Split(nd.Bounds, nd.Axis.Coord(nd.Point))
		child := nd.Axis.Flip()
		if s.lo < s.mid {
			t.nodes[s.node].Left = t.place(points, s.lo, s.mid, child, lb)
		}
		if s.mid+1 < s.hi {
			t.nodes[s.node].Right = t.place(points, s.mid+1, s.hi, child, rb)
		}
	}
}

// place selects the median of perm[lo:hi] along axis, appends it as a node
// and queues its children; returns the new node's index.
func (t *Tree) place(points []geom.Point, lo, hi int, axis Axis, bounds geom.Bounds) int {
	k := (hi - lo) / 2
	selectNth(byAxis{idx: t.perm[lo:hi], pts: points, axis: axis}, k)
	mid := lo + k
	i := t.perm[mid]
	t.nodes = append(t.nodes, Node{
		Point:  points[i],
		Index:  i,
		Bounds: bounds,
		Axis:   axis,
		Left:   None,
		Right:  None,
	})
	id := len(t.nodes) - 1
	t.work = append(t.work, span{node: id, lo: lo, mid: mid, hi: hi})
	return id
}

// Len returns the number of nodes, equal to the number of indexed points.
func (t *Tree) Len() int { return len(t.nodes) }

// Root returns the index of the root node or None if the tree is empty.
func (t *Tree) Root() int {
	if len(t.nodes) == 0 {
		return None
	}
	return 0
}

// Node returns the node at i.
func (t *Tree) Node(i int) Node { return t.nodes[i] }

// Nodes returns every node; the slice is owned by t and is invalidated by the
// next Build.
func (t *Tree) Nodes() []Node { return t.nodes }

// Query appends to dst the index of every node whose point p satisfies
// p != q and SquaredDistance(p, q) < radius*radius. Order of results is
// traversal order and carries no meaning.
//
// Query does not modify t and may be called concurrently.
func (t *Tree) Query(q geom.Point, radius float64, dst []int) []int {
	if len(t.nodes) == 0 {
		return dst
	}
	r2 := radius * radius
	var buf [64]int
	stack := append(buf[:0], 0)
	for len(stack) != 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nd := &t.nodes[i]
		if geom.DistanceToBounds(nd.Bounds, q) >= r2 {
			continue
		}
		if nd.Point != q && geom.SquaredDistance(nd.Point, q) < r2 {
			dst = append(dst, i)
		}
		if nd.Left != None {
			stack = append(stack, nd.Left)
		}
		if nd.Right != None {
			stack = append(stack, nd.Right)
		}
	}
	return dst
}

// byAxis orders a permutation of points by one coordinate.
type byAxis struct {
	idx  []int
	pts  []geom.Point
	axis Axis
}

func (s byAxis) Len() int { return len(s.idx) }
func (s byAxis) Less(i, j int) bool {
	return s.axis.Coord(s.pts[s.idx[i]]) < s.axis.Coord(s.pts[s.idx[j]])
}
func (s byAxis) Swap(i, j int) { s.idx[i], s.idx[j] = s.idx[j], s.idx[i] }

func (s byAxis) slice(lo, hi int) byAxis {
	s.idx = s.idx[lo:hi]
	return s
}

// selectNth reorders s so the element at k is in sorted position, elements
// before it compare <= and elements after it compare >=. Pivots are always
// the middle element of the remaining window which keeps the outcome
// deterministic.
func selectNth(s byAxis, k int) {
	lo, hi := 0, s.Len()
	for hi-lo > 1 {
		w := s.slice(lo, hi)
		p := lo + gkd.Partition(w, w.Len()/2)
		switch {
		case p == k:
			return
		case p < k:
			lo = p + 1
		default:
			hi = p
		}
	}
}
