package object

import (
	"math"

	"github.com/inamate/inamate/canvas-go/internal/geom"
)

// Transform is the affine state of a shape. Left and Top locate the origin
// reference point; Width and Height are unscaled extents. Scales are kept
// positive and mirroring lives in FlipX and FlipY, which only affect
// rendering.
type Transform struct {
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Angle   float64 `json:"angle"`
	ScaleX  float64 `json:"scaleX"`
	ScaleY  float64 `json:"scaleY"`
	FlipX   bool    `json:"flipX"`
	FlipY   bool    `json:"flipY"`
	OriginX OriginX `json:"originX"`
	OriginY OriginY `json:"originY"`
}

func DefaultTransform() Transform {
	return Transform{
		ScaleX:  1,
		ScaleY:  1,
		OriginX: OriginLeft,
		OriginY: OriginTop,
	}
}

// normalize folds negative scales into the flip flags.
func (t *Transform) normalize() {
	if t.ScaleX < 0 {
		t.ScaleX = -t.ScaleX
		t.FlipX = !t.FlipX
	}
	if t.ScaleY < 0 {
		t.ScaleY = -t.ScaleY
		t.FlipY = !t.FlipY
	}
}

// ScaledSize is the width and height after scaling, before rotation.
func (t Transform) ScaledSize() geom.Point {
	return geom.Pt(t.Width*math.Abs(t.ScaleX), t.Height*math.Abs(t.ScaleY))
}

func (t Transform) radians() float64 {
	return geom.DegreesToRadians(t.Angle)
}

// originOffset is the vector from the center to the (ox, oy) reference
// point in the unrotated, scaled frame.
func (t Transform) originOffset(ox OriginX, oy OriginY) geom.Point {
	size := t.ScaledSize()
	return geom.Pt(ox.offset()*size.X, oy.offset()*size.Y)
}

// TranslateToCenterPoint converts a point expressed at origin (ox, oy) to
// the center of the box.
func (t Transform) TranslateToCenterPoint(p geom.Point, ox OriginX, oy OriginY) geom.Point {
	return p.Subtract(t.originOffset(ox, oy)).Rotate(p, t.radians())
}

// TranslateToOriginPoint converts a center point to the reference point at
// origin (ox, oy). It is the inverse of TranslateToCenterPoint.
func (t Transform) TranslateToOriginPoint(center geom.Point, ox OriginX, oy OriginY) geom.Point {
	return center.Add(t.originOffset(ox, oy)).Rotate(center, t.radians())
}

func (t Transform) CenterPoint() geom.Point {
	return t.TranslateToCenterPoint(geom.Pt(t.Left, t.Top), t.OriginX, t.OriginY)
}

// PointByOrigin returns the reference point at (ox, oy) without changing
// the transform.
func (t Transform) PointByOrigin(ox OriginX, oy OriginY) geom.Point {
	return t.TranslateToOriginPoint(t.CenterPoint(), ox, oy)
}

// ToLocalPoint expresses p in the shape's unrotated frame, relative to the
// (ox, oy) reference point.
func (t Transform) ToLocalPoint(p geom.Point, ox OriginX, oy OriginY) geom.Point {
	center := t.CenterPoint()
	ref := center.Add(t.originOffset(ox, oy))
	return p.Rotate(center, -t.radians()).Subtract(ref)
}

// SetPositionByOrigin moves the shape so that its (ox, oy) reference point
// lands on pos.
func (t *Transform) SetPositionByOrigin(pos geom.Point, ox OriginX, oy OriginY) {
	center := t.TranslateToCenterPoint(pos, ox, oy)
	p := t.TranslateToOriginPoint(center, t.OriginX, t.OriginY)
	t.Left, t.Top = p.X, p.Y
}

// AdjustOrigin switches the reference point without moving the shape.
func (t *Transform) AdjustOrigin(ox OriginX, oy OriginY) {
	p := t.PointByOrigin(ox, oy)
	t.OriginX, t.OriginY = ox, oy
	t.Left, t.Top = p.X, p.Y
}

// Corners returns tl, tr, br, bl in the parent space. Flips permute the
// visual corners but never change the set, so they are ignored here.
func (t Transform) Corners() [4]geom.Point {
	center := t.CenterPoint()
	half := t.ScaledSize().Multiply(0.5)
	rad := t.radians()
	at := func(dx, dy float64) geom.Point {
		return center.Add(geom.Pt(dx, dy)).Rotate(center, rad)
	}
	return [4]geom.Point{
		at(-half.X, -half.Y),
		at(half.X, -half.Y),
		at(half.X, half.Y),
		at(-half.X, half.Y),
	}
}

func (t Transform) BoundingRect() geom.Rect {
	c := t.Corners()
	return geom.BoundsOf(c[:])
}

// Matrix maps the local box [0,Width]x[0,Height] into the parent space:
// translate-to-origin, then scale (flips mirror about the box center), then
// rotate, then translate-to-position.
func (t Transform) Matrix() geom.Matrix2D {
	ax := (t.OriginX.offset() + 0.5) * t.Width
	ay := (t.OriginY.offset() + 0.5) * t.Height
	m := geom.FromTransform(t.Left, t.Top, math.Abs(t.ScaleX), math.Abs(t.ScaleY), t.Angle, ax, ay)

	flip := geom.Identity()
	if t.FlipX {
		flip[0], flip[4] = -1, t.Width
	}
	if t.FlipY {
		flip[3], flip[5] = -1, t.Height
	}
	return m.Multiply(flip)
}

// centerMatrix maps center-relative coordinates into the parent space.
// Group members are stored in this frame.
func (t Transform) centerMatrix() geom.Matrix2D {
	sx, sy := math.Abs(t.ScaleX), math.Abs(t.ScaleY)
	if t.FlipX {
		sx = -sx
	}
	if t.FlipY {
		sy = -sy
	}
	c := t.CenterPoint()
	return geom.Translate(c.X, c.Y).
		Multiply(geom.RotateDegrees(t.Angle)).
		Multiply(geom.Scale(sx, sy))
}
