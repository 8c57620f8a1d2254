package object

import (
	"fmt"

	"github.com/inamate/inamate/canvas-go/internal/geom"
)

// Polygon is a closed outline through its points. Points keep their
// original coordinates; the box is their bounds, and the default position
// puts the box where the points are.
type Polygon struct {
	Object
	points []geom.Point
	bounds geom.Rect
}

func NewPolygon(points []geom.Point, opts ...Option) *Polygon {
	p := &Polygon{}
	p.init(p, TypePolygon)
	p.setPoints(points)
	p.apply(opts)
	return p
}

func (p *Polygon) setPoints(points []geom.Point) {
	p.points = append([]geom.Point(nil), points...)
	p.bounds = geom.BoundsOf(p.points)
	p.t.Width, p.t.Height = p.bounds.Width, p.bounds.Height
	p.t.Left, p.t.Top = p.bounds.X, p.bounds.Y
}

// Points returns a copy of the vertices.
func (p *Polygon) Points() []geom.Point {
	return append([]geom.Point(nil), p.points...)
}

// PathOffset is the center of the points' bounds.
func (p *Polygon) PathOffset() geom.Point {
	return p.bounds.Center()
}

func (p *Polygon) Complexity() int { return len(p.points) }

func (p *Polygon) outline(closed bool) []PathCommand {
	if len(p.points) == 0 {
		return nil
	}
	to := boxMapper(p.bounds, p.t.Width, p.t.Height)
	out := make([]PathCommand, 0, len(p.points)+1)
	for i, pt := range p.points {
		q := to(pt)
		op := "L"
		if i == 0 {
			op = "M"
		}
		out = append(out, cmd(op, q.X, q.Y))
	}
	if closed {
		out = append(out, cmd("Z"))
	}
	return out
}

func (p *Polygon) Outline() []PathCommand { return p.outline(true) }

func (p *Polygon) ContainsPoint(pt geom.Point) bool {
	return p.containsOutline(pt)
}

func (p *Polygon) ToObject(include ...Field) Record {
	rec := p.baseRecord(include)
	rec["points"] = pointsToRecord(p.points)
	return rec
}

// Polyline is an open Polygon. For containment it is treated as closed.
type Polyline struct {
	Polygon
}

func NewPolyline(points []geom.Point, opts ...Option) *Polyline {
	p := &Polyline{}
	p.init(p, TypePolyline)
	p.setPoints(points)
	p.apply(opts)
	return p
}

func (p *Polyline) Outline() []PathCommand { return p.outline(false) }

func pointsToRecord(pts []geom.Point) []any {
	out := make([]any, len(pts))
	for i, p := range pts {
		out[i] = map[string]any{"x": p.X, "y": p.Y}
	}
	return out
}

func (rd *recordReader) points(key string) []geom.Point {
	l, ok := rd.list(key)
	if !ok {
		return nil
	}
	out := make([]geom.Point, len(l))
	for i, v := range l {
		m, ok := v.(map[string]any)
		if !ok {
			rd.fail(key, fmt.Errorf("element %d: want {x,y}, got %T: %w", i, v, ErrMalformed))
			return nil
		}
		prd := &recordReader{r: m, prefix: fmt.Sprintf("%s[%d].", key, i)}
		prd.require("x", "y")
		prd.float("x", &out[i].X)
		prd.float("y", &out[i].Y)
		rd.merge(prd)
	}
	return out
}

func polygonFromObject(rd *recordReader, kind Type) (Shape, error) {
	rd.require("points")
	pts := rd.points("points")
	if rd.err != nil {
		return nil, rd.err
	}

	var s Shape
	var poly *Polygon
	if kind == TypePolyline {
		pl := &Polyline{}
		pl.init(pl, TypePolyline)
		s, poly = pl, &pl.Polygon
	} else {
		pg := &Polygon{}
		pg.init(pg, TypePolygon)
		s, poly = pg, pg
	}
	poly.setPoints(pts)
	poly.decodeBase(rd)
	if rd.err != nil {
		return nil, rd.err
	}
	poly.finish()
	return s, nil
}
