package geom

import (
	"math"

	"github.com/gogpu/gg"
)

// Matrix2D is a 2D affine transformation in canvas order, so it serializes
// the way draw commands expect:
//
//	| a  c  e |
//	| b  d  f |
//	| 0  0  1 |
//
// stored as [a, b, c, d, e, f]. Arithmetic is done on gg.Matrix.
type Matrix2D [6]float64

// GG converts m to gg's row-major layout.
func (m Matrix2D) GG() gg.Matrix {
	return gg.Matrix{A: m[0], B: m[2], C: m[4], D: m[1], E: m[3], F: m[5]}
}

func FromGGMatrix(g gg.Matrix) Matrix2D {
	return Matrix2D{g.A, g.D, g.B, g.E, g.C, g.F}
}

func Identity() Matrix2D {
	return FromGGMatrix(gg.Identity())
}

func Translate(tx, ty float64) Matrix2D {
	return FromGGMatrix(gg.Translate(tx, ty))
}

func Scale(sx, sy float64) Matrix2D {
	return FromGGMatrix(gg.Scale(sx, sy))
}

// Rotate returns a rotation matrix (angle in radians).
func Rotate(radians float64) Matrix2D {
	return FromGGMatrix(gg.Rotate(radians))
}

func RotateDegrees(degrees float64) Matrix2D {
	return Rotate(DegreesToRadians(degrees))
}

// Multiply returns m * other: other is applied first, then m.
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	return FromGGMatrix(m.GG().Multiply(other.GG()))
}

func (m Matrix2D) Apply(p Point) Point {
	return FromGG(m.GG().TransformPoint(p.GG()))
}

// TransformRect transforms r and returns the axis-aligned box of the result.
func (m Matrix2D) TransformRect(r Rect) Rect {
	corners := r.Corners()
	for i, c := range corners {
		corners[i] = m.Apply(c)
	}
	return BoundsOf(corners)
}

func (m Matrix2D) Determinant() float64 {
	g := m.GG()
	return g.A*g.E - g.B*g.D
}

// Invert returns the inverse. A singular matrix inverts to Identity.
func (m Matrix2D) Invert() Matrix2D {
	return FromGGMatrix(m.GG().Invert())
}

// FromTransform composes T(x, y) * R(r) * S(sx, sy) * T(-ax, -ay).
// The anchor (ax, ay) is the point that stays at (x, y).
func FromTransform(x, y, sx, sy, rDegrees, ax, ay float64) Matrix2D {
	return FromGGMatrix(gg.Translate(x, y).
		Multiply(gg.Rotate(DegreesToRadians(rDegrees))).
		Multiply(gg.Scale(sx, sy)).
		Multiply(gg.Translate(-ax, -ay)))
}

// ToSlice returns the matrix for JSON serialization.
func (m Matrix2D) ToSlice() []float64 {
	return m[:]
}

func (m Matrix2D) IsIdentity() bool {
	const eps = 1e-10
	id := Identity()
	for i := range m {
		if math.Abs(m[i]-id[i]) >= eps {
			return false
		}
	}
	return true
}
