package geom

import "github.com/gogpu/gg"

// Rect is an axis-aligned box. It keeps the left/top/width/height form
// records use; the set operations go through gg.Rect.
type Rect struct {
	X      float64 `json:"left"`
	Y      float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// GG converts r to gg's min/max form.
func (r Rect) GG() gg.Rect {
	return gg.NewRect(r.TopLeft().GG(), r.BottomRight().GG())
}

func FromGGRect(r gg.Rect) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Width(), Height: r.Height()}
}

// RectFromPoints returns the box spanned by two opposite corners in any order.
func RectFromPoints(a, b Point) Rect {
	return FromGGRect(gg.NewRect(a.GG(), b.GG()))
}

// Contains checks if a point is inside the rect. Edges count as inside.
func (r Rect) Contains(p Point) bool {
	return r.GG().Contains(p.GG())
}

// Intersects reports whether the closed boxes share at least one point.
func (r Rect) Intersects(o Rect) bool {
	a, b := r.GG(), o.GG()
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Extend(r, other)
}

// Extend is Union without the empty-rect shortcut, so degenerate boxes such
// as a horizontal line still widen the result.
func Extend(r, other Rect) Rect {
	return FromGGRect(r.GG().Union(other.GG()))
}

func (r Rect) TopLeft() Point {
	return Point{X: r.X, Y: r.Y}
}

func (r Rect) BottomRight() Point {
	return Point{X: r.X + r.Width, Y: r.Y + r.Height}
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Corners returns tl, tr, br, bl.
func (r Rect) Corners() []Point {
	return []Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
}
