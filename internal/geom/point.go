package geom

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// ErrDomain is returned for operations that are undefined for their inputs,
// such as division by a zero component or scaling a zero-size extent.
var ErrDomain = errors.New("domain error")

// Point is a 2D coordinate. Methods with value receivers never mutate; the
// *Equals variants update the receiver in place and return it for chaining.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// GG converts p for use with the gg vector and matrix types.
func (p Point) GG() gg.Point { return gg.Pt(p.X, p.Y) }

// FromGG converts a gg point back.
func FromGG(q gg.Point) Point { return Point{X: q.X, Y: q.Y} }

func (p Point) Add(q Point) Point {
	return FromGG(p.GG().Add(q.GG()))
}

func (p Point) Subtract(q Point) Point {
	return FromGG(p.GG().Sub(q.GG()))
}

func (p Point) ScalarAdd(s float64) Point {
	return Point{X: p.X + s, Y: p.Y + s}
}

func (p Point) ScalarSubtract(s float64) Point {
	return Point{X: p.X - s, Y: p.Y - s}
}

// Multiply scales both components by s.
func (p Point) Multiply(s float64) Point {
	return FromGG(p.GG().Mul(s))
}

// Divide divides both components by s. A zero divisor is a domain error.
func (p Point) Divide(s float64) (Point, error) {
	if s == 0 {
		return p, fmt.Errorf("divide %s by zero: %w", p, ErrDomain)
	}
	return FromGG(p.GG().Div(s)), nil
}

func (p Point) DistanceFrom(q Point) float64 {
	return p.GG().Distance(q.GG())
}

// Lerp interpolates between p and q. t is not clamped, so values outside
// [0, 1] extrapolate along the line.
func (p Point) Lerp(q Point, t float64) Point {
	return FromGG(p.GG().Lerp(q.GG(), t))
}

// Dot and Cross treat the points as vectors.
func (p Point) Dot(q Point) float64   { return p.GG().Dot(q.GG()) }
func (p Point) Cross(q Point) float64 { return p.GG().Cross(q.GG()) }

// MidPointFrom returns the point halfway between p and q.
func (p Point) MidPointFrom(q Point) Point {
	return p.Lerp(q, 0.5)
}

func (p Point) Min(q Point) Point {
	return Point{X: math.Min(p.X, q.X), Y: math.Min(p.Y, q.Y)}
}

func (p Point) Max(q Point) Point {
	return Point{X: math.Max(p.X, q.X), Y: math.Max(p.Y, q.Y)}
}

// Eq reports exact equality.
func (p Point) Eq(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

// EqualsWithin reports whether both components differ by at most eps.
func (p Point) EqualsWithin(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Lt, Lte, Gt and Gte compare component-wise; both components must satisfy
// the relation.
func (p Point) Lt(q Point) bool  { return p.X < q.X && p.Y < q.Y }
func (p Point) Lte(q Point) bool { return p.X <= q.X && p.Y <= q.Y }
func (p Point) Gt(q Point) bool  { return p.X > q.X && p.Y > q.Y }
func (p Point) Gte(q Point) bool { return p.X >= q.X && p.Y >= q.Y }

// Rotate rotates p about origin by radians, clockwise in screen space
// (y grows downward).
func (p Point) Rotate(origin Point, radians float64) Point {
	return FromGG(p.GG().Sub(origin.GG()).Rotate(radians).Add(origin.GG()))
}

func (p Point) String() string {
	return fmt.Sprintf("%g,%g", p.X, p.Y)
}

func (p *Point) AddEquals(q Point) *Point {
	*p = p.Add(q)
	return p
}

func (p *Point) SubtractEquals(q Point) *Point {
	*p = p.Subtract(q)
	return p
}

func (p *Point) ScalarAddEquals(s float64) *Point {
	p.X += s
	p.Y += s
	return p
}

func (p *Point) ScalarSubtractEquals(s float64) *Point {
	p.X -= s
	p.Y -= s
	return p
}

func (p *Point) MultiplyEquals(s float64) *Point {
	*p = p.Multiply(s)
	return p
}

// DivideEquals divides in place. On a zero divisor p is left unchanged.
func (p *Point) DivideEquals(s float64) (*Point, error) {
	if s == 0 {
		return p, fmt.Errorf("divide %s by zero: %w", *p, ErrDomain)
	}
	*p = FromGG(p.GG().Div(s))
	return p, nil
}

func (p *Point) SetXY(x, y float64) *Point {
	p.X, p.Y = x, y
	return p
}

func (p *Point) SetFromPoint(q Point) *Point {
	p.X, p.Y = q.X, q.Y
	return p
}

// Swap exchanges the values of p and q.
func (p *Point) Swap(q *Point) {
	*p, *q = *q, *p
}

// DegreesToRadians converts an angle in degrees.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// BoundsOf returns the axis-aligned rect around pts. An empty slice yields
// the zero Rect.
func BoundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := gg.NewRect(pts[0].GG(), pts[0].GG())
	for _, p := range pts[1:] {
		r = r.Union(gg.NewRect(p.GG(), p.GG()))
	}
	return FromGGRect(r)
}
