package geom

import (
	"math"
	"testing"
	"testing/quick"

	"golang.org/x/exp/rand"
)

func TestSquaredDistance(t *testing.T) {
	tests := []struct {
		a, b Point
		want float64
	}{
		{Point{}, Point{}, 0},
		{Point{X: 3, Y: 4}, Point{}, 25},
		{Point{X: -1, Y: -1}, Point{X: 1, Y: 1}, 8},
		{Point{X: 0.5, Y: 0}, Point{X: 0, Y: 0.5}, 0.5},
	}
	for _, tt := range tests {
		if have := SquaredDistance(tt.a, tt.b); have != tt.want {
			t.Errorf("SquaredDistance(%v, %v): have %v, want %v", tt.a, tt.b, have, tt.want)
		}
	}

	symmetric := func(ax, ay, bx, by float64) bool {
		a, b := Point{X: ax, Y: ay}, Point{X: bx, Y: by}
		return SquaredDistance(a, b) == SquaredDistance(b, a)
	}
	if err := quick.Check(symmetric, nil); err != nil {
		t.Fatal(err)
	}
}

func TestIntersection(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d Point
		want       Point
		ok         bool
	}{
		{
			name: "cross",
			a:    Point{X: -1, Y: 0}, b: Point{X: 1, Y: 0},
			c: Point{X: 0, Y: -1}, d: Point{X: 0, Y: 1},
			want: Point{}, ok: true,
		},
		{
			name: "offset cross",
			a:    Point{X: 0, Y: 0}, b: Point{X: 4, Y: 4},
			c: Point{X: 0, Y: 4}, d: Point{X: 4, Y: 0},
			want: Point{X: 2, Y: 2}, ok: true,
		},
		{
			name: "parallel",
			a:    Point{X: 0, Y: 0}, b: Point{X: 1, Y: 0},
			c: Point{X: 0, Y: 1}, d: Point{X: 1, Y: 1},
		},
		{
			name: "collinear",
			a:    Point{X: 0, Y: 0}, b: Point{X: 2, Y: 0},
			c: Point{X: 1, Y: 0}, d: Point{X: 3, Y: 0},
		},
		{
			name: "short of crossing",
			a:    Point{X: -1, Y: 0}, b: Point{X: 1, Y: 0},
			c: Point{X: 0, Y: 0.5}, d: Point{X: 0, Y: 2},
		},
		{
			name: "touching endpoint",
			a:    Point{X: -1, Y: 0}, b: Point{X: 1, Y: 0},
			c: Point{X: 1, Y: 0}, d: Point{X: 1, Y: 3},
			want: Point{X: 1, Y: 0}, ok: true,
		},
		{
			name: "shallow cross",
			a:    Point{X: -400, Y: 0}, b: Point{X: 400, Y: 0},
			c: Point{X: -400, Y: -1e-3}, d: Point{X: 400, Y: 1e-3},
			want: Point{}, ok: true,
		},
		{
			name: "degenerate segment",
			a:    Point{X: 0, Y: 0}, b: Point{X: 0, Y: 0},
			c: Point{X: -1, Y: -1}, d: Point{X: 1, Y: 1},
		},
	}
	for _, tt := range tests {
		have, ok := Intersection(tt.a, tt.b, tt.c, tt.d)
		if ok != tt.ok {
			t.Errorf("%s: have ok %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && SquaredDistance(have, tt.want) > 1e-18 {
			t.Errorf("%s: have %v, want %v", tt.name, have, tt.want)
		}
	}
}

func TestIntersectionCollinearAtScale(t *testing.T) {
	// disjoint pieces of one line; rounding leaves the determinant near but
	// not always at zero
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1<<14; i++ {
		o := RandomPoint(rng, -300, 300)
		th := Uniform(rng, 0, 2*math.Pi)
		dir := Point{X: math.Cos(th), Y: math.Sin(th)}
		at := func(s float64) Point { return Point{X: o.X + s*dir.X, Y: o.Y + s*dir.Y} }

		s0 := Uniform(rng, -100, 0)
		s1 := s0 + Uniform(rng, 50, 100)
		s2 := s1 + Uniform(rng, 1, 50)
		s3 := s2 + Uniform(rng, 50, 100)
		a, b, c, d := at(s0), at(s1), at(s2), at(s3)
		if p, ok := Intersection(a, b, c, d); ok {
			t.Fatalf("Intersection(%v, %v, %v, %v) = %v for disjoint collinear segments", a, b, c, d, p)
		}
		if p, ok := Intersection(c, d, b, a); ok {
			t.Fatalf("Intersection(%v, %v, %v, %v) = %v for disjoint collinear segments", c, d, b, a, p)
		}
	}
}

func TestIntersectionOnBothSegments(t *testing.T) {
	const lim = 1000
	clamp := func(x float64) float64 {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return math.Mod(x, lim)
	}
	f := func(ax, ay, bx, by, cx, cy, dx, dy float64) bool {
		a, b := Point{X: clamp(ax), Y: clamp(ay)}, Point{X: clamp(bx), Y: clamp(by)}
		c, d := Point{X: clamp(cx), Y: clamp(cy)}, Point{X: clamp(dx), Y: clamp(dy)}
		p, ok := Intersection(a, b, c, d)
		if !ok {
			return true
		}
		ab, _ := BoundsOf([]Point{a, b})
		cd, _ := BoundsOf([]Point{c, d})
		// allow for rounding at the box edges
		return DistanceToBounds(ab, p) < 1e-9 && DistanceToBounds(cd, p) < 1e-9
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 1 << 12}); err != nil {
		t.Fatal(err)
	}
}

func TestBoundsOf(t *testing.T) {
	if _, ok := BoundsOf(nil); ok {
		t.Fatal("BoundsOf(nil) reported ok")
	}
	pts := []Point{{X: 3, Y: -1}, {X: -2, Y: 5}, {X: 0, Y: 0}}
	b, ok := BoundsOf(pts)
	if !ok {
		t.Fatal("BoundsOf reported not ok")
	}
	if want := NewBounds(-2, -1, 3, 5); b != want {
		t.Fatalf("have %v, want %v", b, want)
	}
	for _, p := range pts {
		if !Contains(b, p) {
			t.Errorf("%v not contained by %v", p, b)
		}
	}
}

func TestNewBoundsCanonical(t *testing.T) {
	b := NewBounds(4, 4, -4, -4)
	if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y {
		t.Fatalf("corners out of order: %v", b)
	}
	if b != Square(4) {
		t.Fatalf("have %v, want %v", b, Square(4))
	}
}

func TestSplit(t *testing.T) {
	b := Square(10)
	lo, hi := SplitX(b, 2)
	if lo.Max.X != 2 || hi.Min.X != 2 || lo.Min != b.Min || hi.Max != b.Max {
		t.Fatalf("SplitX: have %v %v", lo, hi)
	}
	lo, hi = SplitY(b, -3)
	if lo.Max.Y != -3 || hi.Min.Y != -3 || lo.Min != b.Min || hi.Max != b.Max {
		t.Fatalf("SplitY: have %v %v", lo, hi)
	}

	// split values outside the rectangle still yield sub-rectangles
	lo, hi = SplitX(b, 50)
	if hi.Min.X > hi.Max.X || lo.Max.X > b.Max.X {
		t.Fatalf("SplitX clamp: have %v %v", lo, hi)
	}
}

func TestDistanceToBounds(t *testing.T) {
	b := NewBounds(0, 0, 2, 2)
	tests := []struct {
		p    Point
		want float64
	}{
		{Point{X: 1, Y: 1}, 0},
		{Point{X: 2, Y: 2}, 0},
		{Point{X: 5, Y: 1}, 9},
		{Point{X: -1, Y: -1}, 2},
		{Point{X: 3, Y: 4}, 5},
	}
	for _, tt := range tests {
		if have := DistanceToBounds(b, tt.p); have != tt.want {
			t.Errorf("DistanceToBounds(%v): have %v, want %v", tt.p, have, tt.want)
		}
	}
}

func TestMidpoint(t *testing.T) {
	if have, want := Midpoint(Point{X: -5, Y: 8}, Point{X: -5, Y: -8}), (Point{X: -5}); have != want {
		t.Fatalf("have %v, want %v", have, want)
	}
}

func BenchmarkIntersection(b *testing.B) {
	p, q := Point{X: -1, Y: 0.1}, Point{X: 1, Y: -0.2}
	r, s := Point{X: 0.2, Y: -1}, Point{X: -0.1, Y: 1}
	for n := 0; n < b.N; n++ {
		if _, ok := Intersection(p, q, r, s); !ok {
			b.Fatal("expected intersection")
		}
	}
}
