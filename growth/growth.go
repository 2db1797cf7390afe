// Package growth grows a closed ring of nodes by edge subdivision and relaxes
// it each step: nodes are pulled toward the midpoint of their ring neighbors
// and pushed away from nearby nodes found through a k-d tree.
package growth

import (
	"fmt"
	"math"

	"dasa.cc/ranim/geom"
	"dasa.cc/ranim/kdtree"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"
)

// State of the ring after a step.
type State uint8

const (
	// Growing rings were relaxed and possibly subdivided.
	Growing State = iota
	// Reset rings exceeded capacity and were cleared and reseeded.
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

// Config parameterizes a Ring. Start with DefaultConfig.
type Config struct {
	// Seed for jitter and spawn positions.
	Seed uint64

	// Bounds given to the k-d tree each step.
	Bounds geom.Bounds

	// Capacity is the largest node count that is still relaxed; a step that
	// finds more nodes than this resets the ring instead.
	Capacity int

	// InitNodes is the size of the ring after a reset.
	InitNodes int

	// SpawnRange bounds seed positions to [-SpawnRange, SpawnRange] on both axes.
	SpawnRange float64

	// Jitter bounds the per step random walk to [-Jitter, Jitter] on both axes.
	Jitter float64

	// NeighborRadiusSquared is the squared edge length beyond which an edge
	// is subdivided.
	NeighborRadiusSquared float64

	// SearchRadius limits which nodes repel each other.
	SearchRadius float64

	// DragAttract divides the pull toward ring neighbors.
	DragAttract float64

	// DragReject divides the averaged push from nearby nodes.
	DragReject float64

	// Workers splits the force computation across goroutines; values <= 1
	// compute sequentially. Results do not depend on Workers.
	Workers int
}

// DefaultConfig returns the parameters of the growth sketch.
func DefaultConfig() Config {
	return Config{
		Bounds:                geom.Square(400),
		Capacity:              511,
		InitNodes:             3,
		SpawnRange:            400.0 / 3,
		Jitter:                0.15,
		NeighborRadiusSquared: 1000,
		SearchRadius:          math.Sqrt(2000),
		DragAttract:           35,
		DragReject:            25,
	}
}

// Validate reports the first invalid field of c.
func (c Config) Validate() error {
	switch {
	case c.InitNodes < 3:
		return fmt.Errorf("growth: InitNodes must be >= 3, have %v", c.InitNodes)
	case c.Capacity < c.InitNodes:
		return fmt.Errorf("growth: Capacity %v smaller than InitNodes %v", c.Capacity, c.InitNodes)
	case c.DragAttract == 0 || c.DragReject == 0:
		return fmt.Errorf("growth: drag coefficients must be non-zero, have %v, %v", c.DragAttract, c.DragReject)
	case c.SpawnRange < 0 || c.Jitter < 0 || c.SearchRadius < 0 || c.NeighborRadiusSquared < 0:
		return fmt.Errorf("growth: ranges and radii must be >= 0")
	}
	return nil
}

// Node is a ring member; Left and Right index its ring neighbors.
type Node struct {
	Point       geom.Point
	Left, Right int
}

// Stats counts what a ring has done since New.
type Stats struct {
	Steps   int
	Resets  int
	Inserts int
}

// Ring is a cyclic doubly linked list of nodes held in an arena.
type Ring struct {
	cfg   Config
	rng   *rand.Rand
	nodes []Node
	state State
	stats Stats

	points []geom.Point
	next   []geom.Point
	tree   kdtree.Tree
	buf    []int
}

// New returns a seeded ring.
func New(cfg Config) (*Ring, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Ring{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		nodes: make([]Node, 0, cfg.Capacity+1),
	}
	r.seed()
	return r, nil
}

func (r *Ring) seed() {
	r.nodes = r.nodes[:0]
	for i := 0; i < r.cfg.InitNodes; i++ {
		r.nodes = append(r.nodes, Node{
			Point: geom.RandomPoint(r.rng, -r.cfg.SpawnRange, r.cfg.SpawnRange),
			Left:  pmod(i-1, r.cfg.InitNodes),
			Right: pmod(i+1, r.cfg.InitNodes),
		})
	}
}

// Load replaces the ring with one passing through points in order.
func (r *Ring) Load(points []geom.Point) error {
	if len(points) < 3 {
		return fmt.Errorf("growth: ring needs at least 3 points, have %v", len(points))
	}
	r.nodes = r.nodes[:0]
	for i, p := range points {
		r.nodes = append(r.nodes, Node{Point: p, Left: pmod(i-1, len(points)), Right: pmod(i+1, len(points))})
	}
	r.state = Growing
	return nil
}

// Reset clears the ring and reseeds it.
func (r *Ring) Reset() {
	r.seed()
	r.state = Reset
	r.stats.Resets++
}

// Step resets the ring if it has outgrown its capacity and otherwise relaxes
// it once. The resulting state is returned.
func (r *Ring) Step() State {
	r.stats.Steps++
	if len(r.nodes) > r.cfg.Capacity {
		r.Reset()
		return Reset
	}
	r.Relax()
	r.state = Growing
	return Growing
}

// Relax runs a single relaxation pass: jitter every node, subdivide the
// first edge found to be too long, rebuild the tree, then move every node
// by its attraction and repulsion. New positions are computed from the
// positions at the start of the pass and committed together.
func (r *Ring) Relax() {
	j := r.cfg.Jitter
	for i := range r.nodes {
		r.nodes[i].Point.X += geom.Uniform(r.rng, -j, j)
		r.nodes[i].Point.Y += geom.Uniform(r.rng, -j, j)
	}

	for i, nd := range r.nodes {
		if r.cfg.NeighborRadiusSquared < geom.SquaredDistance(nd.Point, r.nodes[nd.Right].Point) {
			r.InsertNode(i)
			break
		}
	}

	r.points = r.points[:0]
	for _, nd := range r.nodes {
		r.points = append(r.points, nd.Point)
	}
	r.tree.Build(r.points, r.cfg.Bounds)

	n := len(r.nodes)
	if cap(r.next) < n {
		r.next = make([]geom.Point, n)
	}
	r.next = r.next[:n]

	if w := r.cfg.Workers; w <= 1 || n < 2*w {
		r.buf = r.forces(0, n, r.buf)
	} else {
		var g errgroup.Group
		chunk := (n + w - 1) / w
		for lo := 0; lo < n; lo += chunk {
			lo, hi := lo, min(lo+chunk, n)
			g.Go(func() error {
				r.forces(lo, hi, nil)
				return nil
			})
		}
		g.Wait()
	}

	for i := range r.nodes {
		r.nodes[i].Point = r.next[i]
	}
}

// forces writes next positions for nodes[lo:hi]; buf is scratch space for
// tree queries and is returned for reuse.
func (r *Ring) forces(lo, hi int, buf []int) []int {
	attract, reject := r.cfg.DragAttract, r.cfg.DragReject
	for i := lo; i < hi; i++ {
		nd := r.nodes[i]
		p := nd.Point
		d := r2.Sub(geom.Midpoint(r.nodes[nd.Left].Point, r.nodes[nd.Right].Point), p)
		next := geom.Point{X: p.X + d.X/attract, Y: p.Y + d.Y/attract}

		buf = r.tree.Query(p, r.cfg.SearchRadius, buf[:0])
		if k := len(buf); k != 0 {
			var sum geom.Point
			for _, t := range buf {
				sum = r2.Add(sum, r2.Sub(p, r.tree.Node(t).Point))
			}
			n := float64(k)
			next.X += (sum.X / n) / reject
			next.Y += (sum.Y / n) / reject
		}
		r.next[i] = next
	}
	return buf
}

// InsertNode splices a new node at the midpoint of nodes[after] and its right
// neighbor and returns the new node's index.
func (r *Ring) InsertNode(after int) int {
	i := len(r.nodes)
	right := r.nodes[after].Right
	r.nodes = append(r.nodes, Node{
		Point: geom.Midpoint(r.nodes[after].Point, r.nodes[right].Point),
		Left:  after,
		Right: right,
	})
	r.nodes[after].Right = i
	r.nodes[right].Left = i
	r.stats.Inserts++
	return i
}

// Cycle appends node indices to dst in ring order starting from node 0,
// following Right links.
func (r *Ring) Cycle(dst []int) []int {
	if len(r.nodes) == 0 {
		return dst
	}
	i := 0
	for {
		dst = append(dst, i)
		if i = r.nodes[i].Right; i == 0 || len(dst) > len(r.nodes) {
			return dst
		}
	}
}

// Nodes returns the arena; it must not be modified and is invalidated by the
// next Step.
func (r *Ring) Nodes() []Node { return r.nodes }

// Len returns the number of live nodes.
func (r *Ring) Len() int { return len(r.nodes) }

// Tree returns the k-d tree built by the last relaxation pass.
func (r *Ring) Tree() *kdtree.Tree { return &r.tree }

// State returns the state left by the last Step or Reset.
func (r *Ring) State() State { return r.state }

// Stats returns counters since New.
func (r *Ring) Stats() Stats { return r.stats }

// Config returns the ring's parameters.
func (r *Ring) Config() Config { return r.cfg }

// pmod returns positive modulo for inputs.
func pmod(x, n int) int { return (x%n + n) % n }
