package object

import "fmt"

type GradientType string

const (
	GradientLinear GradientType = "linear"
	GradientRadial GradientType = "radial"
)

// ColorStop places a color along a gradient. Offset runs from 0 to 1.
type ColorStop struct {
	Offset  float64 `json:"offset"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// Gradient is a fill that varies across the shape. Coordinates are in the
// shape's local box, so the gradient moves and scales with it. A linear
// gradient runs from (X1,Y1) to (X2,Y2). A radial gradient runs from the
// circle (X1,Y1,R1) to the circle (X2,Y2,R2).
type Gradient struct {
	Type       GradientType `json:"type"`
	X1         float64      `json:"x1"`
	Y1         float64      `json:"y1"`
	X2         float64      `json:"x2"`
	Y2         float64      `json:"y2"`
	R1         float64      `json:"r1"`
	R2         float64      `json:"r2"`
	ColorStops []ColorStop  `json:"colorStops"`
}

// NewLinearGradient runs from (x1,y1) to (x2,y2). Stops are added with
// AddColorStop.
func NewLinearGradient(x1, y1, x2, y2 float64) *Gradient {
	return &Gradient{Type: GradientLinear, X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// NewRadialGradient runs outward from radius r1 to radius r2 around (cx,cy).
func NewRadialGradient(cx, cy, r1, r2 float64) *Gradient {
	return &Gradient{Type: GradientRadial, X1: cx, Y1: cy, X2: cx, Y2: cy, R1: r1, R2: r2}
}

// AddColorStop appends a fully opaque stop.
func (g *Gradient) AddColorStop(offset float64, color string) *Gradient {
	g.ColorStops = append(g.ColorStops, ColorStop{Offset: offset, Color: color, Opacity: 1})
	return g
}

// Clone returns a deep copy.
func (g *Gradient) Clone() *Gradient {
	if g == nil {
		return nil
	}
	out := *g
	out.ColorStops = append([]ColorStop(nil), g.ColorStops...)
	return &out
}

func (g *Gradient) record() map[string]any {
	coords := map[string]any{"x1": g.X1, "y1": g.Y1, "x2": g.X2, "y2": g.Y2}
	if g.Type == GradientRadial {
		coords["r1"] = g.R1
		coords["r2"] = g.R2
	}
	stops := make([]any, len(g.ColorStops))
	for i, s := range g.ColorStops {
		stops[i] = map[string]any{"offset": s.Offset, "color": s.Color, "opacity": s.Opacity}
	}
	return map[string]any{"type": string(g.Type), "coords": coords, "colorStops": stops}
}

func gradientFromRecord(r Record, prefix string) (*Gradient, error) {
	rd := &recordReader{r: r, prefix: prefix}
	rd.require("type")
	var kind string
	rd.str("type", &kind)
	g := &Gradient{Type: GradientType(kind)}
	if rd.err == nil && g.Type != GradientLinear && g.Type != GradientRadial {
		rd.fail("type", fmt.Errorf("%q: %w", kind, ErrMalformed))
	}

	if coords, ok := rd.object("coords"); ok {
		crd := &recordReader{r: coords, prefix: prefix + "coords."}
		crd.float("x1", &g.X1)
		crd.float("y1", &g.Y1)
		crd.float("x2", &g.X2)
		crd.float("y2", &g.Y2)
		crd.float("r1", &g.R1)
		crd.float("r2", &g.R2)
		rd.merge(crd)
	}

	stops, _ := rd.list("colorStops")
	for i, v := range stops {
		var m Record
		switch v := v.(type) {
		case map[string]any:
			m = v
		case Record:
			m = v
		default:
			rd.fail("colorStops", fmt.Errorf("element %d: want object, got %T: %w", i, v, ErrMalformed))
		}
		if m == nil {
			break
		}
		s := ColorStop{Opacity: 1}
		srd := &recordReader{r: m, prefix: fmt.Sprintf("%scolorStops[%d].", prefix, i)}
		srd.require("offset", "color")
		srd.float("offset", &s.Offset)
		srd.str("color", &s.Color)
		srd.float("opacity", &s.Opacity)
		rd.merge(srd)
		g.ColorStops = append(g.ColorStops, s)
	}
	if rd.err != nil {
		return nil, rd.err
	}
	return g, nil
}
