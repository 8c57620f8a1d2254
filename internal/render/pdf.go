package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/inamate/inamate/canvas-go/internal/geom"
)

// PDFSurface writes vector output with gofpdf. One canvas pixel is one PDF
// point. gofpdf's own transforms work in PDF space, so the surface keeps
// its own matrix stack and maps coordinates before emitting them.
type PDFSurface struct {
	pdf    *gofpdf.Fpdf
	width  float64
	height float64

	matrix geom.Matrix2D
	stack  []geom.Matrix2D

	path   []pdfSeg
	images int
}

type pdfSeg struct {
	op  byte // 'M', 'L', 'Q', 'C', 'Z'
	pts []geom.Point
}

// NewPDFSurface creates a single-page document sized to the canvas.
func NewPDFSurface(width, height float64) *PDFSurface {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return &PDFSurface{pdf: pdf, width: width, height: height, matrix: geom.Identity()}
}

func (s *PDFSurface) Push() { s.stack = append(s.stack, s.matrix) }

func (s *PDFSurface) Pop() {
	if n := len(s.stack); n > 0 {
		s.matrix = s.stack[n-1]
		s.stack = s.stack[:n-1]
	}
}

func (s *PDFSurface) Transform(m geom.Matrix2D) {
	s.matrix = s.matrix.Multiply(m)
}

func (s *PDFSurface) add(op byte, pts ...geom.Point) {
	for i, p := range pts {
		pts[i] = s.matrix.Apply(p)
	}
	s.path = append(s.path, pdfSeg{op: op, pts: pts})
}

func (s *PDFSurface) MoveTo(p geom.Point)          { s.add('M', p) }
func (s *PDFSurface) LineTo(p geom.Point)          { s.add('L', p) }
func (s *PDFSurface) QuadTo(c, p geom.Point)       { s.add('Q', c, p) }
func (s *PDFSurface) CubicTo(c1, c2, p geom.Point) { s.add('C', c1, c2, p) }
func (s *PDFSurface) ClosePath()                   { s.add('Z') }

func (s *PDFSurface) emitPath() {
	for _, seg := range s.path {
		p := seg.pts
		switch seg.op {
		case 'M':
			s.pdf.MoveTo(p[0].X, p[0].Y)
		case 'L':
			s.pdf.LineTo(p[0].X, p[0].Y)
		case 'Q':
			s.pdf.CurveTo(p[0].X, p[0].Y, p[1].X, p[1].Y)
		case 'C':
			s.pdf.CurveBezierCubicTo(p[0].X, p[0].Y, p[1].X, p[1].Y, p[2].X, p[2].Y)
		case 'Z':
			s.pdf.ClosePath()
		}
	}
}

// lineScale is how much the current transform stretches lengths.
func (s *PDFSurface) lineScale() float64 {
	return math.Sqrt(math.Abs(s.matrix.Determinant()))
}

func (s *PDFSurface) FillStroke(fill *Fill, stroke *Stroke) error {
	defer func() { s.path = s.path[:0] }()
	if len(s.path) == 0 {
		return nil
	}

	if fill != nil && fill.Gradient != nil {
		if !s.fillGradient(fill.Gradient) {
			fill = &Fill{Color: fill.Gradient.Stops[0].Color, EvenOdd: fill.EvenOdd}
		} else {
			fill = nil
		}
	}
	if fill != nil {
		c := fill.Color
		s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		s.pdf.SetAlpha(float64(c.A)/255, "Normal")
		s.emitPath()
		if fill.EvenOdd {
			s.pdf.DrawPath("f*")
		} else {
			s.pdf.DrawPath("F")
		}
	}

	if stroke != nil {
		c := stroke.Color
		k := s.lineScale()
		s.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		s.pdf.SetAlpha(float64(c.A)/255, "Normal")
		s.pdf.SetLineWidth(stroke.Width * k)
		s.pdf.SetLineCapStyle(pdfCap(stroke.Cap))
		s.pdf.SetLineJoinStyle(pdfJoin(stroke.Join))
		dash := make([]float64, len(stroke.Dash))
		for i, d := range stroke.Dash {
			dash[i] = d * k
		}
		s.pdf.SetDashPattern(dash, 0)
		s.emitPath()
		s.pdf.DrawPath("D")
	}
	return s.pdf.Error()
}

// fillGradient paints g clipped to the current path. PDF gradients here
// blend two colors, so only the first and last stops are used. It reports
// false when the path is not a single closed polygon, which gofpdf cannot
// clip to.
func (s *PDFSurface) fillGradient(g *Gradient) bool {
	polys := flattenSegs(s.path, 12)
	if len(polys) != 1 || len(polys[0]) < 3 {
		return false
	}
	pts := make([]gofpdf.PointType, len(polys[0]))
	for i, p := range polys[0] {
		pts[i] = gofpdf.PointType{X: p.X, Y: p.Y}
	}
	b := geom.BoundsOf(polys[0])
	if b.Width <= 0 || b.Height <= 0 {
		return false
	}

	first, last := g.Stops[0].Color, g.Stops[len(g.Stops)-1].Color
	norm := func(p geom.Point) (float64, float64) {
		p = s.matrix.Apply(p)
		return (p.X - b.X) / b.Width, 1 - (p.Y-b.Y)/b.Height
	}
	x1, y1 := norm(g.Start)
	x2, y2 := norm(g.End)

	s.pdf.SetAlpha((float64(first.A)+float64(last.A))/510, "Normal")
	s.pdf.ClipPolygon(pts, false)
	if g.Radial {
		r := g.R2 * s.lineScale() / b.Width
		s.pdf.RadialGradient(b.X, b.Y, b.Width, b.Height,
			int(first.R), int(first.G), int(first.B), int(last.R), int(last.G), int(last.B),
			x1, y1, x2, y2, r)
	} else {
		s.pdf.LinearGradient(b.X, b.Y, b.Width, b.Height,
			int(first.R), int(first.G), int(first.B), int(last.R), int(last.G), int(last.B),
			x1, y1, x2, y2)
	}
	s.pdf.ClipEnd()
	return true
}

// flattenSegs turns the recorded path into polygons, sampling each curve
// at steps points.
func flattenSegs(path []pdfSeg, steps int) [][]geom.Point {
	var polys [][]geom.Point
	var cur []geom.Point
	flush := func() {
		if len(cur) > 0 {
			polys = append(polys, cur)
		}
		cur = nil
	}
	last := func() geom.Point {
		if len(cur) == 0 {
			return geom.Point{}
		}
		return cur[len(cur)-1]
	}
	for _, seg := range path {
		p := seg.pts
		switch seg.op {
		case 'M':
			flush()
			cur = []geom.Point{p[0]}
		case 'L':
			cur = append(cur, p[0])
		case 'Q':
			p0 := last()
			for i := 1; i <= steps; i++ {
				t := float64(i) / float64(steps)
				u := 1 - t
				cur = append(cur, p0.Multiply(u*u).Add(p[0].Multiply(2*u*t)).Add(p[1].Multiply(t*t)))
			}
		case 'C':
			p0 := last()
			for i := 1; i <= steps; i++ {
				t := float64(i) / float64(steps)
				u := 1 - t
				cur = append(cur, p0.Multiply(u*u*u).Add(p[0].Multiply(3*u*u*t)).
					Add(p[1].Multiply(3*u*t*t)).Add(p[2].Multiply(t*t*t)))
			}
		case 'Z':
			flush()
		}
	}
	flush()
	return polys
}

func pdfCap(s string) string {
	switch s {
	case "round", "square":
		return s
	default:
		return "butt"
	}
}

func pdfJoin(s string) string {
	switch s {
	case "round", "bevel":
		return s
	default:
		return "miter"
	}
}

// DrawImage places the image in the axis-aligned box its transformed
// extents cover. Rotation and skew are not reproduced.
func (s *PDFSurface) DrawImage(img image.Image, width, height, opacity float64) error {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode pdf image: %w", err)
	}

	s.images++
	name := fmt.Sprintf("img%d", s.images)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	s.pdf.RegisterImageOptionsReader(name, opts, &buf)

	box := geom.Rect{Width: width, Height: height}
	corners := box.Corners()
	for i, p := range corners {
		corners[i] = s.matrix.Apply(p)
	}
	b := geom.BoundsOf(corners)

	s.pdf.SetAlpha(opacity, "Normal")
	s.pdf.ImageOptions(name, b.X, b.Y, b.Width, b.Height, false, opts, 0, "")
	return s.pdf.Error()
}

func (s *PDFSurface) Clear(c color.NRGBA) {
	s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	s.pdf.SetAlpha(float64(c.A)/255, "Normal")
	s.pdf.Rect(0, 0, s.width, s.height, "F")
}

// Encode writes the finished document.
func (s *PDFSurface) Encode(w io.Writer) error {
	return s.pdf.Output(w)
}
