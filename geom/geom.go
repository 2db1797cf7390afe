// Package geom provides planar primitives shared by the sketches.
//
// Point and Bounds are aliases of gonum's r2 types so values flow freely
// between this package and the r2 vector functions.
package geom

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon is the sine of the angle below which two segments are treated as
// parallel or collinear. It is compared against the determinant of the
// segments divided by the product of their lengths, so it holds at any scale.
const Epsilon = 1e-12

// Point is a position in the plane.
type Point = r2.Vec

// Bounds is an axis-aligned rectangle; Min holds the lower corner and Max
// the upper corner.
type Bounds = r2.Box

// NewBounds returns the rectangle spanned by (x0, y0) and (x1, y1) with
// corners ordered so that Min <= Max on both axes.
func NewBounds(x0, y0, x1, y1 float64) Bounds {
	return Bounds{
		Min: Point{X: math.Min(x0, x1), Y: math.Min(y0, y1)},
		Max: Point{X: math.Max(x0, x1), Y: math.Max(y0, y1)},
	}
}

// Square returns bounds centered on the origin with the given half edge.
func Square(half float64) Bounds {
	return NewBounds(-half, -half, half, half)
}

// Uniform returns a value drawn uniformly from [lo, hi).
func Uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// RandomPoint returns a point whose coordinates are drawn from Uniform(lo, hi),
// x first.
func RandomPoint(rng *rand.Rand, lo, hi float64) Point {
	x := Uniform(rng, lo, hi)
	y := Uniform(rng, lo, hi)
	return Point{X: x, Y: y}
}

// SquaredDistance returns the exact squared euclidean distance of a and b.
func SquaredDistance(a, b Point) float64 {
	return r2.Norm2(r2.Sub(a, b))
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// DistanceToBounds returns the squared distance from p to the closest point
// of b; zero if p lies within b.
func DistanceToBounds(b Bounds, p Point) float64 {
	x := p.X - math.Max(b.Min.X, math.Min(p.X, b.Max.X))
	y := p.Y - math.Max(b.Min.Y, math.Min(p.Y, b.Max.Y))
	return x*x + y*y
}

// Contains reports whether p lies within b, edges included.
func Contains(b Bounds, p Point) bool {
	return b.Min.X <= p.X && p.X <= b.Max.X && b.Min.Y <= p.Y && p.Y <= b.Max.Y
}

// SplitX clips b at x, returning the part left of x and the part right of x.
// Values of x outside b are clamped so both results remain sub-rectangles.
func SplitX(b Bounds, x float64) (lo, hi Bounds) {
	x = math.Max(b.Min.X, math.Min(x, b.Max.X))
	lo, hi = b, b
	lo.Max.X = x
	hi.Min.X = x
	return lo, hi
}

// SplitY clips b at y, returning the part below y and the part above y.
func SplitY(b Bounds, y float64) (lo, hi Bounds) {
	y = math.Max(b.Min.Y, math.Min(y, b.Max.Y))
	lo, hi = b, b
	lo.Max.Y = y
	hi.Min.Y = y
	return lo, hi
}

// Union returns the smallest rectangle containing a and b.
func Union(a, b Bounds) Bounds {
	return Bounds{
		Min: Point{X: math.Min(a.Min.X, b.Min.X), Y: math.Min(a.Min.Y, b.Min.Y)},
		Max: Point{X: math.Max(a.Max.X, b.Max.X), Y: math.Max(a.Max.Y, b.Max.Y)},
	}
}

// BoundsOf returns the smallest rectangle containing every point; ok is
// false for an empty slice.
func BoundsOf(points []Point) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b.Min, b.Max = points[0], points[0]
	for _, p := range points[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b, true
}

// Intersection returns the point where segments a-b and c-d cross.
//
//	    a   c
//	     \ /
//	      X
//	     / \
//	    d   b
//
// Segments within Epsilon of parallel never intersect, nor do zero length
// segments; the solved parameters must both lie in [0, 1], endpoints
// included. The result is interpolated along a-b.
func Intersection(a, b, c, d Point) (Point, bool) {
	den := (a.X-b.X)*(c.Y-d.Y) - (a.Y-b.Y)*(c.X-d.X)
	if math.Abs(den) <= Epsilon*math.Hypot(a.X-b.X, a.Y-b.Y)*math.Hypot(c.X-d.X, c.Y-d.Y) {
		return Point{}, false
	}
	t := ((a.X-c.X)*(c.Y-d.Y) - (a.Y-c.Y)*(c.X-d.X)) / den
	u := -((a.X-b.X)*(a.Y-c.Y) - (a.Y-b.Y)*(a.X-c.X)) / den
	if t < 0 || 1 < t || u < 0 || 1 < u {
		return Point{}, false
	}
	return Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}, true
}
