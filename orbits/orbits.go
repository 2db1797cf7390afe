// Package orbits moves bodies that pull on every other body with a constant
// per-axis force, independent of distance.
package orbits

import (
	"fmt"

	"dasa.cc/ranim/geom"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
)

// Config parameterizes a System. Start with DefaultConfig.
type Config struct {
	Seed uint64

	// N is the number of bodies.
	N int

	// K is the velocity change per pair, per axis, per step.
	K float64

	// SpawnRange bounds spawn positions to [-SpawnRange, SpawnRange].
	SpawnRange float64

	// Reload is the number of steps before the bodies respawn.
	Reload int
}

// DefaultConfig returns the parameters of the orbits sketch.
func DefaultConfig() Config {
	return Config{N: 20, K: 0.015, SpawnRange: 300, Reload: 480}
}

// Validate reports the first invalid field of c.
func (c Config) Validate() error {
	switch {
	case c.N < 1:
		return fmt.Errorf("orbits: N must be >= 1, have %v", c.N)
	case c.SpawnRange < 0:
		return fmt.Errorf("orbits: SpawnRange must be >= 0, have %v", c.SpawnRange)
	case c.Reload < 0:
		return fmt.Errorf("orbits: Reload must be >= 0, have %v", c.Reload)
	}
	return nil
}

// Body has a position and a velocity.
type Body struct {
	Point    geom.Point
	Velocity r2.Vec
}

// System is a set of mutually attracting bodies.
type System struct {
	cfg     Config
	rng     *rand.Rand
	bodies  []Body
	counter int
	reloads int
}

// New returns a system with freshly spawned bodies at rest.
func New(cfg Config) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &System{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		bodies: make([]Body, cfg.N),
	}
	s.spawn()
	return s, nil
}

func (s *System) spawn() {
	r := s.cfg.SpawnRange
	for i := range s.bodies {
		s.bodies[i] = Body{Point: geom.RandomPoint(s.rng, -r, r)}
	}
	s.counter = 0
}

// Step respawns the bodies once they have moved for Reload steps and
// advances them otherwise.
func (s *System) Step() {
	if s.counter > s.cfg.Reload {
		s.Reset()
		return
	}
	s.counter++
	s.Advance()
}

// Reset respawns the bodies at rest.
func (s *System) Reset() {
	s.spawn()
	s.reloads++
}

// Advance accelerates every pair of bodies toward each other along each
// axis, then moves every body by its velocity.
func (s *System) Advance() {
	k := s.cfg.K
	b := s.bodies
	for i := range b {
		for j := i + 1; j < len(b); j++ {
			pull(&b[i].Velocity.X, &b[j].Velocity.X, b[i].Point.X, b[j].Point.X, k)
			pull(&b[i].Velocity.Y, &b[j].Velocity.Y, b[i].Point.Y, b[j].Point.Y, k)
		}
	}
	for i := range b {
		b[i].Point = r2.Add(b[i].Point, b[i].Velocity)
	}
}

// pull moves velocities vi and vj of coordinates xi and xj toward each other.
func pull(vi, vj *float64, xi, xj, k float64) {
	switch {
	case xi < xj:
		*vi += k
		*vj -= k
	case xj < xi:
		*vi -= k
		*vj += k
	}
}

// Momentum returns the sum of all velocities.
func (s *System) Momentum() r2.Vec {
	var m r2.Vec
	for _, b := range s.bodies {
		m = r2.Add(m, b.Velocity)
	}
	return m
}

// Bodies returns the bodies; they must not be modified.
func (s *System) Bodies() []Body { return s.bodies }

// Reloads returns the number of respawns since New.
func (s *System) Reloads() int { return s.reloads }

// Config returns the system's parameters.
func (s *System) Config() Config { return s.cfg }
