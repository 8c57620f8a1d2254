package object

import "math"

// Ellipse is stored through its box: rx is Width/2 and ry is Height/2.
type Ellipse struct {
	Object
}

func NewEllipse(rx, ry float64, opts ...Option) *Ellipse {
	e := &Ellipse{}
	e.init(e, TypeEllipse)
	e.t.Width, e.t.Height = 2*math.Abs(rx), 2*math.Abs(ry)
	e.apply(opts)
	return e
}

func (e *Ellipse) RX() float64 { return e.t.Width / 2 }
func (e *Ellipse) RY() float64 { return e.t.Height / 2 }

func (e *Ellipse) SetRadii(rx, ry float64) {
	e.t.Width, e.t.Height = 2*math.Abs(rx), 2*math.Abs(ry)
	e.changed()
}

func (e *Ellipse) Outline() []PathCommand {
	return ellipseOutline(e.t.Width/2, e.t.Height/2, e.t.Width/2, e.t.Height/2)
}

func (e *Ellipse) ToObject(include ...Field) Record {
	rec := e.baseRecord(include)
	rec["rx"] = e.RX()
	rec["ry"] = e.RY()
	return rec
}

func ellipseFromObject(rd *recordReader) (Shape, error) {
	e := &Ellipse{}
	e.init(e, TypeEllipse)
	e.decodeBase(rd)
	var rx, ry float64 = -1, -1
	rd.float("rx", &rx)
	rd.float("ry", &ry)
	if rd.err != nil {
		return nil, rd.err
	}
	if rx >= 0 {
		e.t.Width = 2 * rx
	}
	if ry >= 0 {
		e.t.Height = 2 * ry
	}
	e.finish()
	return e, nil
}

// Circle is an ellipse whose radii are kept equal.
type Circle struct {
	Ellipse
}

func NewCircle(radius float64, opts ...Option) *Circle {
	c := &Circle{}
	c.init(c, TypeCircle)
	c.t.Width, c.t.Height = 2*math.Abs(radius), 2*math.Abs(radius)
	c.apply(opts)
	return c
}

func (c *Circle) Radius() float64 { return c.t.Width / 2 }

func (c *Circle) SetRadius(r float64) {
	c.Ellipse.SetRadii(r, r)
}

// SetRadii keeps the circle round by using rx for both radii.
func (c *Circle) SetRadii(rx, _ float64) {
	c.SetRadius(rx)
}

// constrainSize keeps the box square: the side that changed wins.
func (c *Circle) constrainSize(width, height float64, widthChanged bool) (float64, float64) {
	if widthChanged {
		return width, width
	}
	return height, height
}

func (c *Circle) ToObject(include ...Field) Record {
	rec := c.baseRecord(include)
	rec["radius"] = c.Radius()
	return rec
}

func circleFromObject(rd *recordReader) (Shape, error) {
	c := &Circle{}
	c.init(c, TypeCircle)
	c.decodeBase(rd)
	radius := c.t.Width / 2
	rd.float("radius", &radius)
	if rd.err != nil {
		return nil, rd.err
	}
	c.t.Width, c.t.Height = 2*math.Abs(radius), 2*math.Abs(radius)
	c.finish()
	return c, nil
}
