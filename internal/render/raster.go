package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/HugoSmits86/nativewebp"
	"github.com/gogpu/gg"

	"github.com/inamate/inamate/canvas-go/internal/geom"
)

// RasterSurface draws into a gg context.
type RasterSurface struct {
	dc *gg.Context
}

// NewRasterSurface creates a width x height pixel surface.
func NewRasterSurface(width, height int) *RasterSurface {
	return &RasterSurface{dc: gg.NewContext(width, height)}
}

func (r *RasterSurface) Push() { r.dc.Push() }
func (r *RasterSurface) Pop()  { r.dc.Pop() }

func (r *RasterSurface) Transform(m geom.Matrix2D) {
	r.dc.Transform(m.GG())
}

func (r *RasterSurface) MoveTo(p geom.Point)          { r.dc.MoveTo(p.X, p.Y) }
func (r *RasterSurface) LineTo(p geom.Point)          { r.dc.LineTo(p.X, p.Y) }
func (r *RasterSurface) QuadTo(c, p geom.Point)       { r.dc.QuadraticTo(c.X, c.Y, p.X, p.Y) }
func (r *RasterSurface) CubicTo(c1, c2, p geom.Point) { r.dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p.X, p.Y) }
func (r *RasterSurface) ClosePath()                   { r.dc.ClosePath() }

func (r *RasterSurface) FillStroke(fill *Fill, stroke *Stroke) error {
	if fill == nil && stroke == nil {
		r.dc.ClearPath()
		return nil
	}

	if fill != nil {
		if fill.Gradient != nil {
			r.dc.SetFillBrush(r.gradientBrush(fill.Gradient))
		} else {
			r.dc.SetColor(fill.Color)
		}
		if fill.EvenOdd {
			r.dc.SetFillRule(gg.FillRuleEvenOdd)
		} else {
			r.dc.SetFillRule(gg.FillRuleNonZero)
		}
		if stroke == nil {
			return r.dc.Fill()
		}
		if err := r.dc.FillPreserve(); err != nil {
			r.dc.ClearPath()
			return fmt.Errorf("fill path: %w", err)
		}
	}

	r.dc.SetColor(stroke.Color)
	r.dc.SetLineWidth(stroke.Width)
	r.dc.SetLineCap(lineCap(stroke.Cap))
	r.dc.SetLineJoin(lineJoin(stroke.Join))
	if stroke.MiterLimit > 0 {
		r.dc.SetMiterLimit(stroke.MiterLimit)
	}
	r.dc.SetDash(stroke.Dash...)
	return r.dc.Stroke()
}

func ggColor(c color.NRGBA) gg.RGBA {
	return gg.RGBA2(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

// gradientBrush samples g in path coordinates. The brush is evaluated in
// device space, so each pixel is mapped back through the current
// transform first.
func (r *RasterSurface) gradientBrush(g *Gradient) gg.Brush {
	var src interface{ ColorAt(x, y float64) gg.RGBA }
	if g.Radial {
		rg := gg.NewRadialGradientBrush(g.End.X, g.End.Y, g.R1, g.R2).SetFocus(g.Start.X, g.Start.Y)
		for _, st := range g.Stops {
			rg.AddColorStop(st.Offset, ggColor(st.Color))
		}
		src = rg
	} else {
		lg := gg.NewLinearGradientBrush(g.Start.X, g.Start.Y, g.End.X, g.End.Y)
		for _, st := range g.Stops {
			lg.AddColorStop(st.Offset, ggColor(st.Color))
		}
		src = lg
	}
	inv := r.dc.GetTransform().Invert()
	return gg.NewCustomBrush(func(x, y float64) gg.RGBA {
		p := inv.TransformPoint(gg.Pt(x, y))
		return src.ColorAt(p.X, p.Y)
	}).WithName("gradient")
}

func lineCap(s string) gg.LineCap {
	switch s {
	case "round":
		return gg.LineCapRound
	case "square":
		return gg.LineCapSquare
	default:
		return gg.LineCapButt
	}
}

func lineJoin(s string) gg.LineJoin {
	switch s {
	case "round":
		return gg.LineJoinRound
	case "bevel":
		return gg.LineJoinBevel
	default:
		return gg.LineJoinMiter
	}
}

func (r *RasterSurface) DrawImage(img image.Image, width, height, opacity float64) error {
	if img == nil {
		return nil
	}
	r.dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		DstWidth:      width,
		DstHeight:     height,
		Interpolation: gg.InterpBilinear,
		Opacity:       opacity,
		BlendMode:     gg.BlendNormal,
	})
	return nil
}

func (r *RasterSurface) Clear(c color.NRGBA) {
	r.dc.ClearWithColor(ggColor(c))
}

// Image returns the rendered pixels.
func (r *RasterSurface) Image() image.Image { return r.dc.Image() }

func (r *RasterSurface) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

func (r *RasterSurface) EncodeWebP(w io.Writer) error {
	return nativewebp.Encode(w, r.dc.Image(), nil)
}

// Close releases the context's resources.
func (r *RasterSurface) Close() error { return r.dc.Close() }

// pixelSize rounds a canvas extent up to whole pixels, at least one.
func pixelSize(v, scale float64) int {
	return max(1, int(math.Ceil(v*scale)))
}
