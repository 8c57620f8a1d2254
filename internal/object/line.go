package object

import (
	"math"

	"github.com/inamate/inamate/canvas-go/internal/geom"
)

// Line is a segment between two endpoints. Its box is the endpoints'
// bounding box; it is stroked, not filled.
type Line struct {
	Object
	x1, y1, x2, y2 float64
}

func NewLine(x1, y1, x2, y2 float64, opts ...Option) *Line {
	l := &Line{x1: x1, y1: y1, x2: x2, y2: y2}
	l.init(l, TypeLine)
	l.style.Fill = ""
	l.style.Stroke = "rgb(0,0,0)"
	l.fitBox()
	l.t.Left, l.t.Top = math.Min(x1, x2), math.Min(y1, y2)
	l.apply(opts)
	return l
}

func (l *Line) fitBox() {
	l.t.Width = math.Abs(l.x2 - l.x1)
	l.t.Height = math.Abs(l.y2 - l.y1)
}

func (l *Line) Points() (x1, y1, x2, y2 float64) {
	return l.x1, l.y1, l.x2, l.y2
}

// SetPoints replaces the endpoints and moves the box to cover them,
// keeping the current origin.
func (l *Line) SetPoints(x1, y1, x2, y2 float64) {
	l.x1, l.y1, l.x2, l.y2 = x1, y1, x2, y2
	l.fitBox()
	l.t.SetPositionByOrigin(geom.Pt(math.Min(x1, x2), math.Min(y1, y2)), OriginLeft, OriginTop)
	l.changed()
}

func (l *Line) natural() geom.Rect {
	return geom.RectFromPoints(geom.Pt(l.x1, l.y1), geom.Pt(l.x2, l.y2))
}

func (l *Line) Outline() []PathCommand {
	to := boxMapper(l.natural(), l.t.Width, l.t.Height)
	a, b := to(geom.Pt(l.x1, l.y1)), to(geom.Pt(l.x2, l.y2))
	return []PathCommand{cmd("M", a.X, a.Y), cmd("L", b.X, b.Y)}
}

func (l *Line) ToObject(include ...Field) Record {
	rec := l.baseRecord(include)
	rec["x1"] = l.x1
	rec["y1"] = l.y1
	rec["x2"] = l.x2
	rec["y2"] = l.y2
	return rec
}

func lineFromObject(rd *recordReader) (Shape, error) {
	l := &Line{}
	l.init(l, TypeLine)
	l.style.Fill = ""
	l.style.Stroke = "rgb(0,0,0)"
	rd.float("x1", &l.x1)
	rd.float("y1", &l.y1)
	rd.float("x2", &l.x2)
	rd.float("y2", &l.y2)
	l.fitBox()
	l.t.Left, l.t.Top = math.Min(l.x1, l.x2), math.Min(l.y1, l.y2)
	l.decodeBase(rd)
	if rd.err != nil {
		return nil, rd.err
	}
	l.finish()
	return l, nil
}
