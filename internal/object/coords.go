package object

import "github.com/inamate/inamate/canvas-go/internal/geom"

// Control names a handle on a shape's box.
type Control string

const (
	ControlTL  Control = "tl"
	ControlTR  Control = "tr"
	ControlBR  Control = "br"
	ControlBL  Control = "bl"
	ControlML  Control = "ml"
	ControlMT  Control = "mt"
	ControlMR  Control = "mr"
	ControlMB  Control = "mb"
	ControlMTR Control = "mtr"
)

// Controls lists every control in hit-test order.
var Controls = []Control{
	ControlTL, ControlTR, ControlBR, ControlBL,
	ControlML, ControlMT, ControlMR, ControlMB, ControlMTR,
}

// ControlPoint is a handle position and the square around it.
type ControlPoint struct {
	geom.Point
	Corner [4]geom.Point
}

// ControlCoords caches handle positions. It is derived from the transform
// and never authoritative.
type ControlCoords struct {
	TL, TR, BR, BL ControlPoint
	ML, MT, MR, MB ControlPoint
	MTR            ControlPoint
}

func (c ControlCoords) Get(ctrl Control) (ControlPoint, bool) {
	switch ctrl {
	case ControlTL:
		return c.TL, true
	case ControlTR:
		return c.TR, true
	case ControlBR:
		return c.BR, true
	case ControlBL:
		return c.BL, true
	case ControlML:
		return c.ML, true
	case ControlMT:
		return c.MT, true
	case ControlMR:
		return c.MR, true
	case ControlMB:
		return c.MB, true
	case ControlMTR:
		return c.MTR, true
	}
	return ControlPoint{}, false
}

// Corners returns tl, tr, br, bl.
func (c ControlCoords) Corners() []geom.Point {
	return []geom.Point{c.TL.Point, c.TR.Point, c.BR.Point, c.BL.Point}
}

func computeCoords(t Transform, in Interaction) ControlCoords {
	corners := t.Corners()
	rad := t.radians()
	half := in.CornerSize / 2

	point := func(p geom.Point) ControlPoint {
		cp := ControlPoint{Point: p}
		for i, d := range [4]geom.Point{{X: -half, Y: -half}, {X: half, Y: -half}, {X: half, Y: half}, {X: -half, Y: half}} {
			cp.Corner[i] = p.Add(d).Rotate(p, rad)
		}
		return cp
	}

	tl, tr, br, bl := corners[0], corners[1], corners[2], corners[3]
	mt := tl.MidPointFrom(tr)
	mtr := mt.Add(geom.Pt(0, -in.RotatingPointOffset)).Rotate(mt, rad)

	return ControlCoords{
		TL:  point(tl),
		TR:  point(tr),
		BR:  point(br),
		BL:  point(bl),
		ML:  point(tl.MidPointFrom(bl)),
		MT:  point(mt),
		MR:  point(tr.MidPointFrom(br)),
		MB:  point(bl.MidPointFrom(br)),
		MTR: point(mtr),
	}
}
