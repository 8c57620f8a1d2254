package intersect

import (
	"testing"

	"github.com/inamate/inamate/canvas-go/internal/geom"
)

func pt(x, y float64) geom.Point { return geom.Pt(x, y) }

func TestLineLine(t *testing.T) {
	tests := []struct {
		name       string
		a1, a2     geom.Point
		b1, b2     geom.Point
		wantStatus Status
		wantPoints []geom.Point
	}{
		{
			name: "crossing",
			a1:   pt(0, 0), a2: pt(10, 10),
			b1: pt(0, 10), b2: pt(10, 0),
			wantStatus: Intersecting,
			wantPoints: []geom.Point{pt(5, 5)},
		},
		{
			name: "shared endpoint",
			a1:   pt(0, 0), a2: pt(10, 0),
			b1: pt(10, 0), b2: pt(10, 10),
			wantStatus: Intersecting,
			wantPoints: []geom.Point{pt(10, 0)},
		},
		{
			name: "disjoint",
			a1:   pt(0, 0), a2: pt(1, 1),
			b1: pt(5, 0), b2: pt(6, -3),
			wantStatus: NoIntersection,
		},
		{
			name: "parallel",
			a1:   pt(0, 0), a2: pt(10, 0),
			b1: pt(0, 5), b2: pt(10, 5),
			wantStatus: Parallel,
		},
		{
			name: "coincident overlap",
			a1:   pt(0, 0), a2: pt(10, 0),
			b1: pt(5, 0), b2: pt(15, 0),
			wantStatus: Coincident,
			wantPoints: []geom.Point{pt(5, 0), pt(10, 0)},
		},
		{
			name: "collinear touching",
			a1:   pt(0, 0), a2: pt(10, 0),
			b1: pt(10, 0), b2: pt(20, 0),
			wantStatus: Intersecting,
			wantPoints: []geom.Point{pt(10, 0)},
		},
		{
			name: "collinear disjoint",
			a1:   pt(0, 0), a2: pt(10, 0),
			b1: pt(11, 0), b2: pt(20, 0),
			wantStatus: NoIntersection,
		},
		{
			name: "zero length on segment",
			a1:   pt(5, 0), a2: pt(5, 0),
			b1: pt(0, 0), b2: pt(10, 0),
			wantStatus: Intersecting,
			wantPoints: []geom.Point{pt(5, 0)},
		},
		{
			name: "zero length off segment",
			a1:   pt(0, 0), a2: pt(10, 0),
			b1: pt(5, 1), b2: pt(5, 1),
			wantStatus: NoIntersection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineLine(tt.a1, tt.a2, tt.b1, tt.b2)
			if got.Status != tt.wantStatus {
				t.Fatalf("LineLine() status = %v, want %v", got.Status, tt.wantStatus)
			}
			if len(got.Points) != len(tt.wantPoints) {
				t.Fatalf("LineLine() points = %v, want %v", got.Points, tt.wantPoints)
			}
			for i, p := range tt.wantPoints {
				if !got.Points[i].EqualsWithin(p, 1e-9) {
					t.Errorf("point[%d] = %v, want %v", i, got.Points[i], p)
				}
			}
		})
	}
}

func TestLineLineSymmetricStatus(t *testing.T) {
	segs := [][2]geom.Point{
		{pt(0, 0), pt(10, 10)},
		{pt(0, 10), pt(10, 0)},
		{pt(10, 0), pt(20, 0)},
		{pt(0, 0), pt(10, 0)},
		{pt(3, 3), pt(3, 3)},
	}
	for i, a := range segs {
		for j, b := range segs {
			ab := LineLine(a[0], a[1], b[0], b[1])
			ba := LineLine(b[0], b[1], a[0], a[1])
			if ab.Found() != ba.Found() {
				t.Errorf("segments %d,%d: Found() %v vs %v", i, j, ab.Found(), ba.Found())
			}
		}
	}
}

func TestLinePolygon(t *testing.T) {
	square := []geom.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}

	got := LinePolygon(pt(-5, 5), pt(15, 5), square)
	if got.Status != Intersecting || len(got.Points) != 2 {
		t.Errorf("through line = %v %v, want 2 points", got.Status, got.Points)
	}

	got = LinePolygon(pt(2, 2), pt(8, 8), square)
	if got.Status != NoIntersection {
		t.Errorf("interior line status = %v, want NoIntersection", got.Status)
	}

	// Crossing exactly at a vertex is reported once per incident edge.
	got = LinePolygon(pt(-5, 5), pt(5, -5), square)
	if got.Status != Intersecting || len(got.Points) != 2 {
		t.Errorf("vertex crossing = %v %v, want duplicate point", got.Status, got.Points)
	}
}

func TestPolygonPolygon(t *testing.T) {
	rect := []geom.Point{pt(0, 0), pt(100, 0), pt(100, 100), pt(0, 100)}

	tests := []struct {
		name string
		poly []geom.Point
		want Status
	}{
		{"overlapping", []geom.Point{pt(50, 50), pt(150, 50), pt(150, 150), pt(50, 150)}, Intersecting},
		{"inside no edge contact", []geom.Point{pt(10, 10), pt(50, 10), pt(30, 40)}, NoIntersection},
		{"touching edge", []geom.Point{pt(100, 10), pt(120, 10), pt(110, 30)}, Intersecting},
		{"far away", []geom.Point{pt(200, 200), pt(210, 200), pt(205, 210)}, NoIntersection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonPolygon(tt.poly, rect); got.Status != tt.want {
				t.Errorf("PolygonPolygon() = %v, want %v", got.Status, tt.want)
			}
		})
	}
}

func TestPolygonRectangle(t *testing.T) {
	tri := []geom.Point{pt(0, 0), pt(20, 0), pt(10, 20)}

	// Corners given in any order describe the same rectangle.
	a := PolygonRectangle(tri, pt(5, 5), pt(50, 50))
	b := PolygonRectangle(tri, pt(50, 50), pt(5, 5))
	if a.Status != Intersecting || b.Status != Intersecting {
		t.Errorf("PolygonRectangle() = %v / %v, want Intersecting", a.Status, b.Status)
	}
	if len(a.Points) != len(b.Points) {
		t.Errorf("point counts differ: %d vs %d", len(a.Points), len(b.Points))
	}
}
