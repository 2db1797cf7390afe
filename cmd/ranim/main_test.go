package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSketches(t *testing.T) {
	for _, name := range names() {
		s, err := newSketch(name, params{seed: 1, workers: 2})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		for i := 0; i < 50; i++ {
			if err := s.Step(); err != nil {
				t.Fatalf("%s step %v: %v", name, i, err)
			}
		}
		if kv := s.Summary(); len(kv) == 0 || len(kv)%2 != 0 {
			t.Fatalf("%s: malformed summary %v", name, kv)
		}
		s.Reset()
	}
}

func TestUnknownSketch(t *testing.T) {
	if _, err := newSketch("lines", params{}); err == nil {
		t.Fatal("expected error for unknown sketch")
	}
}

func TestRun(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	if err := run(l, "webs", 40, params{seed: 3}, 0, 15); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"msg=sketch_done", "msg=ranim_summary", "sketch=webs", "report.steps=40", "report.resets=2"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("missing %q:\n%s", want, buf.String())
		}
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("RANIM_TEST_INT", "12")
	if have := envInt("RANIM_TEST_INT", 3); have != 12 {
		t.Fatalf("have %v, want 12", have)
	}
	t.Setenv("RANIM_TEST_INT", "x")
	if have := envInt("RANIM_TEST_INT", 3); have != 3 {
		t.Fatalf("have %v, want 3", have)
	}
	if have := env("RANIM_TEST_UNSET", "growth"); have != "growth" {
		t.Fatalf("have %q, want growth", have)
	}
}
