package geom

import "math"

// Epsilon is the absolute tolerance used for on-edge tests.
const Epsilon = 1e-9

// OnSegment reports whether p lies on the closed segment ab.
func OnSegment(p, a, b Point) bool {
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	scale := math.Max(1, math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y)))
	if math.Abs(cross) > Epsilon*scale*scale {
		return false
	}
	return p.X >= math.Min(a.X, b.X)-Epsilon && p.X <= math.Max(a.X, b.X)+Epsilon &&
		p.Y >= math.Min(a.Y, b.Y)-Epsilon && p.Y <= math.Max(a.Y, b.Y)+Epsilon
}

// PolygonContains reports whether p is inside the closed polygon. Points on
// an edge or vertex count as inside; the interior uses the even-odd rule.
func PolygonContains(poly []Point, p Point) bool {
	n := len(poly)
	switch n {
	case 0:
		return false
	case 1:
		return poly[0].EqualsWithin(p, Epsilon)
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[j], poly[i]
		if OnSegment(p, a, b) {
			return true
		}
		if (b.Y > p.Y) != (a.Y > p.Y) {
			x := (a.X-b.X)*(p.Y-b.Y)/(a.Y-b.Y) + b.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}
