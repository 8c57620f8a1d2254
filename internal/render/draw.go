package render

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"slices"

	"github.com/inamate/inamate/canvas-go/internal/engine"
	"github.com/inamate/inamate/canvas-go/internal/geom"
	"github.com/inamate/inamate/canvas-go/internal/object"
)

// ImageSource resolves the pixels of an image command by object id.
type ImageSource func(objectID string) image.Image

// Draw executes draw commands in order. Unparseable colors skip the paint
// they belong to. Images the source cannot resolve are skipped.
func Draw(s Surface, cmds []engine.DrawCommand, images ImageSource) error {
	for i, cmd := range cmds {
		if err := drawCommand(s, cmd, images); err != nil {
			return fmt.Errorf("draw command %d (%s %s): %w", i, cmd.Op, cmd.ObjectID, err)
		}
	}
	return nil
}

func drawCommand(s Surface, cmd engine.DrawCommand, images ImageSource) error {
	switch cmd.Op {
	case "background":
		c, ok := paint(cmd.Fill, 1, cmd.ObjectID)
		if ok {
			s.Clear(c)
		}
		return nil

	case "image":
		var img image.Image
		if images != nil {
			img = images(cmd.ObjectID)
		}
		if img == nil {
			slog.Debug("skip unloaded image", "object", cmd.ObjectID, "src", cmd.ImageSrc)
			return nil
		}
		s.Push()
		defer s.Pop()
		s.Transform(matrixOf(cmd.Transform))
		return s.DrawImage(img, cmd.ImageWidth, cmd.ImageHeight, cmd.Opacity)

	case "path":
		s.Push()
		defer s.Pop()
		s.Transform(matrixOf(cmd.Transform))
		tracePath(s, cmd.Path)

		var fill *Fill
		if g, ok := gradient(cmd.Gradient, cmd.Opacity, cmd.ObjectID); ok {
			fill = &Fill{Gradient: g, EvenOdd: cmd.FillRule == "evenodd"}
		} else if c, ok := paint(cmd.Fill, cmd.Opacity, cmd.ObjectID); ok {
			fill = &Fill{Color: c, EvenOdd: cmd.FillRule == "evenodd"}
		}
		var stroke *Stroke
		if c, ok := paint(cmd.Stroke, cmd.Opacity, cmd.ObjectID); ok && cmd.StrokeWidth > 0 {
			stroke = &Stroke{
				Color:      c,
				Width:      cmd.StrokeWidth,
				Dash:       cmd.Dash,
				Cap:        cmd.LineCap,
				Join:       cmd.LineJoin,
				MiterLimit: cmd.MiterLimit,
			}
		}
		return s.FillStroke(fill, stroke)

	default:
		slog.Warn("unknown draw op", "op", cmd.Op)
		return nil
	}
}

func paint(value string, opacity float64, objectID string) (c color.NRGBA, ok bool) {
	c, ok, err := ParseColor(value)
	if err != nil {
		slog.Warn("skip paint", "object", objectID, "error", err)
		return c, false
	}
	if !ok {
		return c, false
	}
	return withOpacity(c, opacity), true
}

// gradient resolves the stop colors. Stops with unparseable colors are
// dropped; a gradient left without stops is not painted.
func gradient(g *object.Gradient, opacity float64, objectID string) (*Gradient, bool) {
	if g == nil {
		return nil, false
	}
	out := &Gradient{
		Radial: g.Type == object.GradientRadial,
		Start:  geom.Pt(g.X1, g.Y1),
		End:    geom.Pt(g.X2, g.Y2),
		R1:     g.R1,
		R2:     g.R2,
	}
	for _, st := range g.ColorStops {
		c, ok := paint(st.Color, opacity*st.Opacity, objectID)
		if !ok {
			continue
		}
		out.Stops = append(out.Stops, GradientStop{Offset: st.Offset, Color: c})
	}
	if len(out.Stops) == 0 {
		return nil, false
	}
	slices.SortStableFunc(out.Stops, func(a, b GradientStop) int {
		return cmp.Compare(a.Offset, b.Offset)
	})
	return out, true
}

func matrixOf(t []float64) geom.Matrix2D {
	if len(t) != 6 {
		return geom.Identity()
	}
	return geom.Matrix2D{t[0], t[1], t[2], t[3], t[4], t[5]}
}

// tracePath feeds a normalized outline (M, L, Q, C, Z) to the surface.
func tracePath(s Surface, path []object.PathCommand) {
	for _, c := range path {
		a := c.Args
		switch c.Op {
		case "M":
			s.MoveTo(geom.Pt(a[0], a[1]))
		case "L":
			s.LineTo(geom.Pt(a[0], a[1]))
		case "Q":
			s.QuadTo(geom.Pt(a[0], a[1]), geom.Pt(a[2], a[3]))
		case "C":
			s.CubicTo(geom.Pt(a[0], a[1]), geom.Pt(a[2], a[3]), geom.Pt(a[4], a[5]))
		case "Z":
			s.ClosePath()
		}
	}
}
