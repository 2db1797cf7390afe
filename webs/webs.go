// Package webs grows a planar graph by chord insertion and relaxes it by
// pushing every node away from distant topological neighbors.
//
// A graph starts from a single seed edge. Each insertion samples random
// chords until one crosses the edge set, then subdivides the crossed edges
// so that no two edges ever cross except at a shared node.
package webs

import (
	"errors"
	"fmt"

	"dasa.cc/ranim/geom"
	"dasa.cc/ranim/set"

	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrInsertionExhausted is returned by Insert when no sampled chord crossed
// the edge set within Config.MaxAttempts attempts.
var ErrInsertionExhausted = errors.New("webs: insertion attempts exhausted")

// seedNodes are the endpoints of the seed edge; they never move.
const seedNodes = 2

// State of the graph after a step.
type State uint8

const (
	// Growing graphs were relaxed and possibly extended.
	Growing State = iota
	// Reset graphs exceeded a limit and were cleared and reseeded.
	Reset
)

func (s State) String() string {
	switch s {
	case Growing:
		return "growing"
	case Reset:
		return "reset"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Config parameterizes a Graph. Start with DefaultConfig.
type Config struct {
	Seed uint64

	// SpawnRange bounds seed points and chord candidates to
	// [-SpawnRange, SpawnRange] on both axes.
	SpawnRange float64

	// NodeCapacity and EdgeCapacity size the arenas. A step resets the graph
	// once it holds more than NodeCapacity-2 nodes or EdgeCapacity-3 edges,
	// the most a single insertion adds.
	NodeCapacity int
	EdgeCapacity int

	// InsertInterval is the number of steps between insertions.
	InsertInterval int

	// Drag scales the averaged push from distant neighbors.
	Drag float64

	// NeighborDistanceSquared is the squared distance a neighbor must exceed
	// to push a node.
	NeighborDistanceSquared float64

	// MaxAttempts caps the chords sampled by a single Insert.
	MaxAttempts int
}

// DefaultConfig returns the parameters of the webs sketch.
func DefaultConfig() Config {
	return Config{
		SpawnRange:              400,
		NodeCapacity:            1024,
		EdgeCapacity:            1024,
		InsertInterval:          10,
		Drag:                    0.0025,
		NeighborDistanceSquared: 100,
		MaxAttempts:             10000,
	}
}

// Validate reports the first invalid field of c.
func (c Config) Validate() error {
	switch {
	case c.NodeCapacity < seedNodes+2:
		return fmt.Errorf("webs: NodeCapacity must be >= %v, have %v", seedNodes+2, c.NodeCapacity)
	case c.EdgeCapacity < 4:
		return fmt.Errorf("webs: EdgeCapacity must be >= 4, have %v", c.EdgeCapacity)
	case c.MaxAttempts < 1:
		return fmt.Errorf("webs: MaxAttempts must be >= 1, have %v", c.MaxAttempts)
	case c.SpawnRange < 0 || c.NeighborDistanceSquared < 0 || c.InsertInterval < 0:
		return fmt.Errorf("webs: ranges and intervals must be >= 0")
	}
	return nil
}

// Node is a graph vertex; Neighbors holds the indices of adjacent nodes.
type Node struct {
	Point     geom.Point
	Neighbors set.Slice[int]
}

// Edge joins nodes A and B.
type Edge struct {
	A, B int
}

// Stats counts what a graph has done since New.
type Stats struct {
	Steps     int
	Resets    int
	Inserts   int
	Exhausted int

	// Attempts is the total number of chords sampled.
	Attempts int
}

type crossing struct {
	point geom.Point
	edge  int
}

// byX orders crossings along x, then by edge.
func byX(a, b crossing) int {
	switch {
	case a.point.X < b.point.X:
		return -1
	case a.point.X > b.point.X:
		return 1
	}
	return a.edge - b.edge
}

// Graph is a planar graph whose nodes and edges live in arenas.
type Graph struct {
	cfg     Config
	rng     *rand.Rand
	nodes   []Node
	edges   []Edge
	state   State
	stats   Stats
	counter int

	crossings []crossing
	next      []geom.Point
	moved     []bool
}

// New returns a graph holding a single random seed edge.
func New(cfg Config) (*Graph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Graph{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		nodes: make([]Node, 0, cfg.NodeCapacity),
		edges: make([]Edge, 0, cfg.EdgeCapacity),
	}
	g.seed()
	return g, nil
}

func (g *Graph) seed() {
	g.nodes, g.edges = g.nodes[:0], g.edges[:0]
	a := g.RandomPoint()
	b := g.RandomPoint()
	g.nodes = append(g.nodes,
		Node{Point: a, Neighbors: set.Of(1)},
		Node{Point: b, Neighbors: set.Of(0)},
	)
	g.edges = append(g.edges, Edge{A: 0, B: 1})
}

// RandomPoint draws a point within the spawn range from the graph's source.
func (g *Graph) RandomPoint() geom.Point {
	return geom.RandomPoint(g.rng, -g.cfg.SpawnRange, g.cfg.SpawnRange)
}

// Reset clears the graph and reseeds it. The step counter is kept, so the
// insertion cadence carries on across resets.
func (g *Graph) Reset() {
	g.seed()
	g.state = Reset
	g.stats.Resets++
}

// Step resets the graph if it has reached a limit, inserts a chord every
// InsertInterval steps otherwise, then relaxes the graph once.
//
// If an insertion is exhausted the graph is reset and ErrInsertionExhausted
// is returned along with the Reset state.
func (g *Graph) Step() (State, error) {
	g.stats.Steps++
	g.state = Growing
	switch {
	case len(g.nodes) > g.cfg.NodeCapacity-2 || len(g.edges) > g.cfg.EdgeCapacity-3:
		g.Reset()
	case g.counter > g.cfg.InsertInterval:
		if err := g.Insert(); err != nil {
			g.Reset()
			return g.state, err
		}
		g.counter = 0
	}
	g.Update()
	g.counter++
	return g.state, nil
}

// Insert samples chords until one crosses the edge set, then subdivides it
// into the graph.
//
// A chord crossing a single edge splits that edge at the crossing p and
// hangs a new node q, at the chord's first endpoint, off p. A chord crossing
// several edges is clipped to a random pair of crossings adjacent in x; both
// crossed edges are split, at p and q, and p is joined to q.
//
// The graph is left unchanged if no chord crosses within MaxAttempts.
func (g *Graph) Insert() error {
	for attempt := 0; attempt < g.cfg.MaxAttempts; attempt++ {
		g.stats.Attempts++
		ca, cb := g.RandomPoint(), g.RandomPoint()
		g.crossings = g.crossings[:0]
		for i, e := range g.edges {
			if p, ok := geom.Intersection(ca, cb, g.nodes[e.A].Point, g.nodes[e.B].Point); ok {
				g.crossings = append(g.crossings, crossing{point: p, edge: i})
			}
		}
		switch n := len(g.crossings); {
		case n == 1:
			g.split(g.crossings[0], ca)
		case n > 1:
			cs := g.crossings
			slices.SortFunc(cs, byX)
			i := g.rng.Intn(n - 1)
			g.bridge(cs[i], cs[i+1])
		default:
			continue
		}
		g.stats.Inserts++
		return nil
	}
	g.stats.Exhausted++
	return ErrInsertionExhausted
}

// split handles a single crossing x; q is placed at a.
//
//	a---b    a--p--b
//	      ->    |
//	            q
func (g *Graph) split(x crossing, a geom.Point) {
	e := &g.edges[x.edge]
	ea, eb := e.A, e.B
	q := g.addNode(a)
	p := g.addNode(x.point, ea, eb, q)
	g.nodes[ea].Neighbors.Replace(eb, p)
	g.nodes[eb].Neighbors.Replace(ea, p)
	g.nodes[q].Neighbors.Insert(p)
	e.B = p
	g.edges = append(g.edges, Edge{A: p, B: eb}, Edge{A: p, B: q})
}

// bridge handles crossings l and r adjacent along the chord.
//
//	la---lb    la--p--lb
//	        ->     |
//	ra---rb    ra--q--rb
func (g *Graph) bridge(l, r crossing) {
	le, re := &g.edges[l.edge], &g.edges[r.edge]
	la, lb, ra, rb := le.A, le.B, re.A, re.B
	q := g.addNode(r.point)
	p := g.addNode(l.point, la, lb, q)
	g.nodes[la].Neighbors.Replace(lb, p)
	g.nodes[lb].Neighbors.Replace(la, p)
	g.nodes[ra].Neighbors.Replace(rb, q)
	g.nodes[rb].Neighbors.Replace(ra, q)
	g.nodes[q].Neighbors = set.Of(ra, rb, p)
	le.B, re.B = p, q
	g.edges = append(g.edges, Edge{A: p, B: lb}, Edge{A: q, B: rb}, Edge{A: p, B: q})
}

func (g *Graph) addNode(p geom.Point, neighbors ...int) int {
	g.nodes = append(g.nodes, Node{Point: p, Neighbors: set.Of(neighbors...)})
	return len(g.nodes) - 1
}

// Update moves every node but the seed nodes away from the average of its
// neighbors farther than NeighborDistanceSquared, scaled by Drag. All moves
// are computed before any is applied.
func (g *Graph) Update() {
	n := len(g.nodes)
	if cap(g.next) < n {
		g.next = make([]geom.Point, n)
		g.moved = make([]bool, n)
	}
	g.next, g.moved = g.next[:n], g.moved[:n]

	for i := seedNodes; i < n; i++ {
		nd := g.nodes[i]
		var sum geom.Point
		var k float64
		for _, j := range nd.Neighbors {
			nb := g.nodes[j].Point
			if g.cfg.NeighborDistanceSquared < geom.SquaredDistance(nd.Point, nb) {
				sum = r2.Add(sum, r2.Sub(nd.Point, nb))
				k++
			}
		}
		if g.moved[i] = k > 0; g.moved[i] {
			g.next[i] = r2.Sub(nd.Point, r2.Scale(g.cfg.Drag, r2.Scale(1/k, sum)))
		}
	}

	for i := seedNodes; i < n; i++ {
		if g.moved[i] {
			g.nodes[i].Point = g.next[i]
		}
	}
}

// Topology returns the graph's adjacency as an undirected gonum graph whose
// node IDs are arena indices.
func (g *Graph) Topology() *simple.UndirectedGraph {
	ug := simple.NewUndirectedGraph()
	for i := range g.nodes {
		ug.AddNode(simple.Node(i))
	}
	for _, e := range g.edges {
		ug.SetEdge(ug.NewEdge(simple.Node(e.A), simple.Node(e.B)))
	}
	return ug
}

// Nodes returns the node arena; it must not be modified.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns the edge arena; it must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// State returns the state left by the last Step or Reset.
func (g *Graph) State() State { return g.state }

// Stats returns counters since New.
func (g *Graph) Stats() Stats { return g.stats }

// Config returns the graph's parameters.
func (g *Graph) Config() Config { return g.cfg }
