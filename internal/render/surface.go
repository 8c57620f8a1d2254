// Package render paints compiled draw commands onto a drawing surface and
// exports canvases as PNG, WebP or PDF.
package render

import (
	"image"
	"image/color"

	"github.com/inamate/inamate/canvas-go/internal/geom"
)

// Surface is the drawing target. Path construction uses the current
// transform. FillStroke paints the path built so far and starts a new one.
type Surface interface {
	Push()
	Pop()
	Transform(m geom.Matrix2D)

	MoveTo(p geom.Point)
	LineTo(p geom.Point)
	QuadTo(c, p geom.Point)
	CubicTo(c1, c2, p geom.Point)
	ClosePath()

	// FillStroke paints the current path. Either paint may be nil.
	FillStroke(fill *Fill, stroke *Stroke) error

	// DrawImage draws img scaled into the box (0,0)-(width,height).
	DrawImage(img image.Image, width, height, opacity float64) error

	Clear(c color.NRGBA)
}

type Fill struct {
	Color    color.NRGBA
	Gradient *Gradient // replaces Color when set
	EvenOdd  bool
}

// Gradient is a resolved gradient in the path's coordinates. Stop colors
// already carry the command's opacity.
type Gradient struct {
	Radial bool
	// Start and End are the linear end points. For radial gradients they
	// are the focus and the center.
	Start, End geom.Point
	R1, R2     float64
	Stops      []GradientStop
}

type GradientStop struct {
	Offset float64
	Color  color.NRGBA
}

type Stroke struct {
	Color      color.NRGBA
	Width      float64
	Dash       []float64
	Cap        string
	Join       string
	MiterLimit float64
}
