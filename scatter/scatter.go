// Package scatter random-walks a cloud of points and a query point, indexing
// the cloud with a k-d tree each step to find the query point's neighbors.
package scatter

import (
	"fmt"

	"dasa.cc/ranim/geom"
	"dasa.cc/ranim/kdtree"

	"golang.org/x/exp/rand"
)

// Config parameterizes a Field. Start with DefaultConfig.
type Config struct {
	Seed   uint64
	Bounds geom.Bounds

	// Count is the number of points in the cloud.
	Count int

	// SpawnRange bounds spawn positions to [-SpawnRange, SpawnRange].
	SpawnRange float64

	// Jitter bounds each step of the walk to [-Jitter, Jitter] per axis.
	Jitter float64

	// SearchRadius of the neighbor query.
	SearchRadius float64

	// Reload is the number of walk steps before everything respawns.
	Reload int
}

// DefaultConfig returns the parameters of the k-d tree sketch.
func DefaultConfig() Config {
	return Config{
		Bounds:       geom.Square(400),
		Count:        100,
		SpawnRange:   350,
		Jitter:       0.35,
		SearchRadius: 150,
		Reload:       480,
	}
}

// Validate reports the first invalid field of c.
func (c Config) Validate() error {
	switch {
	case c.Count < 1:
		return fmt.Errorf("scatter: Count must be >= 1, have %v", c.Count)
	case c.SpawnRange < 0 || c.Jitter < 0 || c.SearchRadius < 0:
		return fmt.Errorf("scatter: ranges and radii must be >= 0")
	case c.Reload < 0:
		return fmt.Errorf("scatter: Reload must be >= 0, have %v", c.Reload)
	}
	return nil
}

// Field is a point cloud and a query point.
type Field struct {
	cfg     Config
	rng     *rand.Rand
	counter int
	reloads int

	query     geom.Point
	points    []geom.Point
	tree      kdtree.Tree
	neighbors []int
}

// New returns a field with freshly spawned points and its tree built.
func New(cfg Config) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := &Field{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		points: make([]geom.Point, cfg.Count),
	}
	f.spawn()
	f.index()
	return f, nil
}

func (f *Field) spawn() {
	r := f.cfg.SpawnRange
	f.query = geom.RandomPoint(f.rng, -r, r)
	for i := range f.points {
		f.points[i] = geom.RandomPoint(f.rng, -r, r)
	}
	f.counter = 0
}

func (f *Field) walk() {
	j := f.cfg.Jitter
	f.query.X += geom.Uniform(f.rng, -j, j)
	f.query.Y += geom.Uniform(f.rng, -j, j)
	for i := range f.points {
		f.points[i].X += geom.Uniform(f.rng, -j, j)
		f.points[i].Y += geom.Uniform(f.rng, -j, j)
	}
	f.counter++
}

func (f *Field) index() {
	f.tree.Build(f.points, f.cfg.Bounds)
	f.neighbors = f.tree.Query(f.query, f.cfg.SearchRadius, f.neighbors[:0])
}

// Step respawns everything once the walk has run for Reload steps and walks
// every point otherwise, then rebuilds the tree and queries it.
func (f *Field) Step() {
	if f.counter > f.cfg.Reload {
		f.spawn()
		f.reloads++
	} else {
		f.walk()
	}
	f.index()
}

// Reset respawns everything.
func (f *Field) Reset() {
	f.spawn()
	f.reloads++
	f.index()
}

// Tree returns the tree built by the last step.
func (f *Field) Tree() *kdtree.Tree { return &f.tree }

// Query returns the query point.
func (f *Field) Query() geom.Point { return f.query }

// Neighbors returns the tree node indices found near the query point by the
// last step.
func (f *Field) Neighbors() []int { return f.neighbors }

// Points returns the cloud; it must not be modified.
func (f *Field) Points() []geom.Point { return f.points }

// Counter returns the number of walk steps since the last respawn.
func (f *Field) Counter() int { return f.counter }

// Reloads returns the number of respawns since New.
func (f *Field) Reloads() int { return f.reloads }

// Config returns the field's parameters.
func (f *Field) Config() Config { return f.cfg }
