package main

import (
	"fmt"

	"dasa.cc/ranim/growth"
	"dasa.cc/ranim/orbits"
	"dasa.cc/ranim/scatter"
	"dasa.cc/ranim/sketch"
	"dasa.cc/ranim/webs"

	"golang.org/x/exp/slices"
)

type params struct {
	seed    uint64
	workers int
}

var sketches = map[string]func(params) (sketch.Sketch, error){
	"growth": func(p params) (sketch.Sketch, error) {
		cfg := growth.DefaultConfig()
		cfg.Seed, cfg.Workers = p.seed, p.workers
		r, err := growth.New(cfg)
		return ring{r}, err
	},
	"webs": func(p params) (sketch.Sketch, error) {
		cfg := webs.DefaultConfig()
		cfg.Seed = p.seed
		g, err := webs.New(cfg)
		return graph{g}, err
	},
	"scatter": func(p params) (sketch.Sketch, error) {
		cfg := scatter.DefaultConfig()
		cfg.Seed = p.seed
		f, err := scatter.New(cfg)
		return field{f}, err
	},
	"orbits": func(p params) (sketch.Sketch, error) {
		cfg := orbits.DefaultConfig()
		cfg.Seed = p.seed
		s, err := orbits.New(cfg)
		return system{s}, err
	},
}

func names() []string {
	var a []string
	for k := range sketches {
		a = append(a, k)
	}
	slices.Sort(a)
	return a
}

func newSketch(name string, p params) (sketch.Sketch, error) {
	fn, ok := sketches[name]
	if !ok {
		return nil, fmt.Errorf("unknown sketch %q, want one of %v", name, names())
	}
	s, err := fn(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

type ring struct{ *growth.Ring }

func (r ring) Step() error { r.Ring.Step(); return nil }

func (r ring) Summary() []any {
	s := r.Stats()
	return []any{"state", r.State(), "nodes", r.Len(), "inserts", s.Inserts, "resets", s.Resets}
}

type graph struct{ *webs.Graph }

func (g graph) Step() error {
	_, err := g.Graph.Step()
	return err
}

func (g graph) Summary() []any {
	s := g.Stats()
	return []any{
		"state", g.State(), "nodes", len(g.Nodes()), "edges", len(g.Edges()),
		"inserts", s.Inserts, "attempts", s.Attempts, "resets", s.Resets,
	}
}

type field struct{ *scatter.Field }

func (f field) Step() error { f.Field.Step(); return nil }

func (f field) Summary() []any {
	return []any{"points", len(f.Points()), "neighbors", len(f.Neighbors()), "reloads", f.Reloads()}
}

type system struct{ *orbits.System }

func (s system) Step() error { s.System.Step(); return nil }

func (s system) Summary() []any {
	m := s.Momentum()
	return []any{"bodies", len(s.Bodies()), "momentum_x", m.X, "momentum_y", m.Y, "reloads", s.Reloads()}
}
