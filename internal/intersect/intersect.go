// Package intersect computes intersections between closed line segments,
// polygons and axis-aligned rectangles.
package intersect

import (
	"math"

	"github.com/inamate/inamate/canvas-go/internal/geom"
)

// Status classifies an intersection result.
type Status int

const (
	NoIntersection Status = iota
	Intersecting
	Coincident
	Parallel
)

func (s Status) String() string {
	switch s {
	case Intersecting:
		return "Intersection"
	case Coincident:
		return "Coincident"
	case Parallel:
		return "Parallel"
	default:
		return "No Intersection"
	}
}

// Intersection holds the status and every point found. Polygon queries keep
// duplicates, e.g. a crossing at a shared vertex is reported once per edge.
type Intersection struct {
	Status Status
	Points []geom.Point
}

// Found reports whether the shapes touch or cross.
func (i Intersection) Found() bool {
	return i.Status == Intersecting || i.Status == Coincident
}

func (i *Intersection) appendPoints(pts ...geom.Point) {
	i.Points = append(i.Points, pts...)
}

// tol is the parametric tolerance used to keep endpoints inside closed segments.
const tol = 1e-9

func cross(a, b geom.Point) float64 {
	return a.X*b.Y - a.Y*b.X
}

func dot(a, b geom.Point) float64 {
	return a.X*b.X + a.Y*b.Y
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// LineLine intersects the closed segments a1a2 and b1b2.
func LineLine(a1, a2, b1, b2 geom.Point) Intersection {
	d1 := a2.Subtract(a1)
	d2 := b2.Subtract(b1)
	len1 := math.Hypot(d1.X, d1.Y)
	len2 := math.Hypot(d2.X, d2.Y)

	switch {
	case len1 == 0 && len2 == 0:
		if a1.EqualsWithin(b1, geom.Epsilon) {
			return Intersection{Status: Intersecting, Points: []geom.Point{a1}}
		}
		return Intersection{Status: NoIntersection}
	case len1 == 0:
		if geom.OnSegment(a1, b1, b2) {
			return Intersection{Status: Intersecting, Points: []geom.Point{a1}}
		}
		return Intersection{Status: NoIntersection}
	case len2 == 0:
		if geom.OnSegment(b1, a1, a2) {
			return Intersection{Status: Intersecting, Points: []geom.Point{b1}}
		}
		return Intersection{Status: NoIntersection}
	}

	w := b1.Subtract(a1)
	denom := cross(d1, d2)
	if math.Abs(denom) <= tol*len1*len2 {
		return collinear(a1, d1, len1, b1, b2, w)
	}

	ua := cross(w, d2) / denom
	ub := cross(w, d1) / denom
	if ua < -tol || ua > 1+tol || ub < -tol || ub > 1+tol {
		return Intersection{Status: NoIntersection}
	}
	return Intersection{
		Status: Intersecting,
		Points: []geom.Point{a1.Add(d1.Multiply(clamp01(ua)))},
	}
}

// collinear handles segments whose directions are parallel.
func collinear(a1, d1 geom.Point, len1 float64, b1, b2, w geom.Point) Intersection {
	if math.Abs(cross(w, d1)) > tol*len1*math.Max(1, math.Hypot(w.X, w.Y)) {
		return Intersection{Status: Parallel}
	}

	sq := len1 * len1
	t0 := dot(b1.Subtract(a1), d1) / sq
	t1 := dot(b2.Subtract(a1), d1) / sq
	lo := math.Max(0, math.Min(t0, t1))
	hi := math.Min(1, math.Max(t0, t1))

	switch {
	case lo > hi+tol:
		return Intersection{Status: NoIntersection}
	case hi-lo <= tol:
		return Intersection{
			Status: Intersecting,
			Points: []geom.Point{a1.Add(d1.Multiply(clamp01(lo)))},
		}
	default:
		return Intersection{
			Status: Coincident,
			Points: []geom.Point{a1.Add(d1.Multiply(lo)), a1.Add(d1.Multiply(hi))},
		}
	}
}

// LinePolygon intersects segment a1a2 with every edge of the closed polygon.
func LinePolygon(a1, a2 geom.Point, poly []geom.Point) Intersection {
	var result Intersection
	n := len(poly)
	for i := range n {
		edge := LineLine(a1, a2, poly[i], poly[(i+1)%n])
		if edge.Found() {
			result.appendPoints(edge.Points...)
		}
	}
	if len(result.Points) > 0 {
		result.Status = Intersecting
	}
	return result
}

// PolygonPolygon intersects the edges of two closed polygons. A polygon
// strictly inside another reports NoIntersection; use containment tests
// for that case.
func PolygonPolygon(p1, p2 []geom.Point) Intersection {
	var result Intersection
	n := len(p1)
	for i := range n {
		edge := LinePolygon(p1[i], p1[(i+1)%n], p2)
		result.appendPoints(edge.Points...)
	}
	if len(result.Points) > 0 {
		result.Status = Intersecting
	}
	return result
}

// PolygonRectangle intersects a polygon with the rectangle spanned by r1 and r2.
func PolygonRectangle(poly []geom.Point, r1, r2 geom.Point) Intersection {
	return PolygonPolygon(poly, geom.RectFromPoints(r1, r2).Corners())
}
