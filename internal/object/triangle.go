package object

import "github.com/inamate/inamate/canvas-go/internal/geom"

// Triangle is isosceles: apex at the top center, base along the bottom.
type Triangle struct {
	Object
}

func NewTriangle(width, height float64, opts ...Option) *Triangle {
	t := &Triangle{}
	t.init(t, TypeTriangle)
	t.t.Width, t.t.Height = width, height
	t.apply(opts)
	return t
}

func (t *Triangle) Outline() []PathCommand {
	w, h := t.t.Width, t.t.Height
	return []PathCommand{
		cmd("M", 0, h),
		cmd("L", w/2, 0),
		cmd("L", w, h),
		cmd("Z"),
	}
}

func (t *Triangle) ContainsPoint(p geom.Point) bool {
	return t.containsOutline(p)
}

func (t *Triangle) ToObject(include ...Field) Record {
	return t.baseRecord(include)
}

func triangleFromObject(rd *recordReader) (Shape, error) {
	t := &Triangle{}
	t.init(t, TypeTriangle)
	t.decodeBase(rd)
	if rd.err != nil {
		return nil, rd.err
	}
	t.finish()
	return t, nil
}
