package object

import (
	"fmt"
	"math"
	"strings"

	"github.com/inamate/inamate/canvas-go/internal/geom"
)

// PathCommand is one SVG-style path segment, e.g. {Op: "C", Args: [x1 y1
// x2 y2 x y]}. Lowercase ops are relative to the current point.
type PathCommand struct {
	Op   string    `json:"op"`
	Args []float64 `json:"args"`
}

// argCount is the number of arguments each op takes.
var argCount = map[string]int{
	"M": 2, "L": 2, "H": 1, "V": 1, "C": 6, "S": 4, "Q": 4, "T": 2, "A": 7, "Z": 0,
}

// kappa places cubic control points for a quarter ellipse.
const kappa = 0.5522847498

const flattenSteps = 16

func cmd(op string, args ...float64) PathCommand {
	return PathCommand{Op: op, Args: args}
}

func boxOutline(w, h float64) []PathCommand {
	return []PathCommand{
		cmd("M", 0, 0),
		cmd("L", w, 0),
		cmd("L", w, h),
		cmd("L", 0, h),
		cmd("Z"),
	}
}

// ellipseOutline is four cubic arcs around (cx, cy).
func ellipseOutline(cx, cy, rx, ry float64) []PathCommand {
	kx, ky := rx*kappa, ry*kappa
	return []PathCommand{
		cmd("M", cx+rx, cy),
		cmd("C", cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry),
		cmd("C", cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy),
		cmd("C", cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry),
		cmd("C", cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy),
		cmd("Z"),
	}
}

// NormalizePath validates commands and rewrites them with absolute
// coordinates using only M, L, C, Q and Z. Arcs become cubic segments.
func NormalizePath(cmds []PathCommand) ([]PathCommand, error) {
	out := make([]PathCommand, 0, len(cmds))
	var cur, start, lastCtrl geom.Point
	var lastOp string

	for i, c := range cmds {
		upper := strings.ToUpper(c.Op)
		n, ok := argCount[upper]
		if !ok || len(c.Op) != 1 {
			return nil, fmt.Errorf("path command %d: unknown op %q: %w", i, c.Op, ErrMalformed)
		}
		if len(c.Args) != n {
			return nil, fmt.Errorf("path command %d (%s): want %d args, got %d: %w", i, c.Op, n, len(c.Args), ErrMalformed)
		}
		if i == 0 && upper != "M" {
			return nil, fmt.Errorf("path must start with M, got %q: %w", c.Op, ErrMalformed)
		}

		rel := c.Op != upper
		abs := func(x, y float64) geom.Point {
			if rel {
				return geom.Pt(cur.X+x, cur.Y+y)
			}
			return geom.Pt(x, y)
		}
		a := c.Args

		switch upper {
		case "M":
			cur = abs(a[0], a[1])
			start = cur
			out = append(out, cmd("M", cur.X, cur.Y))
		case "L":
			cur = abs(a[0], a[1])
			out = append(out, cmd("L", cur.X, cur.Y))
		case "H":
			x := a[0]
			if rel {
				x += cur.X
			}
			cur = geom.Pt(x, cur.Y)
			out = append(out, cmd("L", cur.X, cur.Y))
		case "V":
			y := a[0]
			if rel {
				y += cur.Y
			}
			cur = geom.Pt(cur.X, y)
			out = append(out, cmd("L", cur.X, cur.Y))
		case "C":
			c1, c2, end := abs(a[0], a[1]), abs(a[2], a[3]), abs(a[4], a[5])
			out = append(out, cmd("C", c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y))
			lastCtrl, cur = c2, end
		case "S":
			c1 := cur
			if lastOp == "C" || lastOp == "S" {
				c1 = cur.Multiply(2).Subtract(lastCtrl)
			}
			c2, end := abs(a[0], a[1]), abs(a[2], a[3])
			out = append(out, cmd("C", c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y))
			lastCtrl, cur = c2, end
		case "Q":
			q, end := abs(a[0], a[1]), abs(a[2], a[3])
			out = append(out, cmd("Q", q.X, q.Y, end.X, end.Y))
			lastCtrl, cur = q, end
		case "T":
			q := cur
			if lastOp == "Q" || lastOp == "T" {
				q = cur.Multiply(2).Subtract(lastCtrl)
			}
			end := abs(a[0], a[1])
			out = append(out, cmd("Q", q.X, q.Y, end.X, end.Y))
			lastCtrl, cur = q, end
		case "A":
			end := abs(a[5], a[6])
			out = append(out, arcToCubics(cur, a[0], a[1], a[2], a[3] != 0, a[4] != 0, end)...)
			cur = end
		case "Z":
			out = append(out, cmd("Z"))
			cur = start
		}
		lastOp = upper
	}
	return out, nil
}

// arcToCubics converts an SVG elliptical arc to cubic segments of at most
// 90 degrees each.
func arcToCubics(from geom.Point, rx, ry, phiDeg float64, largeArc, sweep bool, to geom.Point) []PathCommand {
	if from.Eq(to) {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return []PathCommand{cmd("L", to.X, to.Y)}
	}

	sinPhi, cosPhi := math.Sincos(geom.DegreesToRadians(phiDeg))
	dx, dy := (from.X-to.X)/2, (from.Y-to.Y)/2
	x1p := cosPhi*dx + sinPhi*dy
	y1p := -sinPhi*dx + cosPhi*dy

	if lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := math.Sqrt(math.Max(0, num/den))
	if largeArc == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx
	cx := cosPhi*cxp - sinPhi*cyp + (from.X+to.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (from.Y+to.Y)/2

	angle := func(ux, uy, vx, vy float64) float64 {
		return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
	}
	ux, uy := (x1p-cxp)/rx, (y1p-cyp)/ry
	vx, vy := (-x1p-cxp)/rx, (-y1p-cyp)/ry
	theta := angle(1, 0, ux, uy)
	delta := angle(ux, uy, vx, vy)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	segments := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	step := delta / float64(segments)
	t := 4.0 / 3.0 * math.Tan(step/4)

	onEllipse := func(ex, ey float64) (float64, float64) {
		return cosPhi*rx*ex - sinPhi*ry*ey + cx, sinPhi*rx*ex + cosPhi*ry*ey + cy
	}

	out := make([]PathCommand, 0, segments)
	for i := range segments {
		a1 := theta + float64(i)*step
		a2 := a1 + step
		s1, c1 := math.Sincos(a1)
		s2, c2 := math.Sincos(a2)
		x1, y1 := onEllipse(c1-t*s1, s1+t*c1)
		x2, y2 := onEllipse(c2+t*s2, s2-t*c2)
		x, y := onEllipse(c2, s2)
		if i == segments-1 {
			x, y = to.X, to.Y
		}
		out = append(out, cmd("C", x1, y1, x2, y2, x, y))
	}
	return out
}

// axisExtrema returns the parameters in (0, 1) where a cubic's derivative
// along one axis is zero.
func axisExtrema(p0, p1, p2, p3 float64) []float64 {
	a := -p0 + 3*p1 - 3*p2 + p3
	b := 2 * (p0 - 2*p1 + p2)
	c := p1 - p0

	var roots []float64
	if math.Abs(a) < 1e-12 {
		if math.Abs(b) > 1e-12 {
			roots = append(roots, -c/b)
		}
	} else if disc := b*b - 4*a*c; disc >= 0 {
		sq := math.Sqrt(disc)
		roots = append(roots, (-b+sq)/(2*a), (-b-sq)/(2*a))
	}

	out := roots[:0]
	for _, r := range roots {
		if r > 0 && r < 1 {
			out = append(out, r)
		}
	}
	return out
}

func cubicAt(p0, p1, p2, p3 geom.Point, t float64) geom.Point {
	mt := 1 - t
	a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
	return geom.Pt(
		a*p0.X+b*p1.X+c*p2.X+d*p3.X,
		a*p0.Y+b*p1.Y+c*p2.Y+d*p3.Y,
	)
}

// quadToCubic returns the cubic control points equivalent to a quadratic.
func quadToCubic(p0, q, p geom.Point) (geom.Point, geom.Point) {
	return p0.Add(q.Subtract(p0).Multiply(2.0 / 3.0)), p.Add(q.Subtract(p).Multiply(2.0 / 3.0))
}

// walkPath visits a normalized path as a sequence of cubic segments
// (lines are degenerate cubics). moveTo marks each new subpath.
func walkPath(cmds []PathCommand, moveTo func(geom.Point), segment func(p0, c1, c2, p3 geom.Point, straight bool)) {
	var cur, start geom.Point
	for _, c := range cmds {
		a := c.Args
		switch c.Op {
		case "M":
			cur = geom.Pt(a[0], a[1])
			start = cur
			moveTo(cur)
		case "L":
			next := geom.Pt(a[0], a[1])
			segment(cur, cur, next, next, true)
			cur = next
		case "C":
			next := geom.Pt(a[4], a[5])
			segment(cur, geom.Pt(a[0], a[1]), geom.Pt(a[2], a[3]), next, false)
			cur = next
		case "Q":
			next := geom.Pt(a[2], a[3])
			c1, c2 := quadToCubic(cur, geom.Pt(a[0], a[1]), next)
			segment(cur, c1, c2, next, false)
			cur = next
		case "Z":
			if !cur.Eq(start) {
				segment(cur, cur, start, start, true)
			}
			cur = start
		}
	}
}

// PathBounds is the exact axis-aligned box of a normalized path, curve
// extrema included.
func PathBounds(cmds []PathCommand) geom.Rect {
	var pts []geom.Point
	walkPath(cmds,
		func(p geom.Point) { pts = append(pts, p) },
		func(p0, c1, c2, p3 geom.Point, straight bool) {
			pts = append(pts, p3)
			if straight {
				return
			}
			for _, t := range axisExtrema(p0.X, c1.X, c2.X, p3.X) {
				pts = append(pts, cubicAt(p0, c1, c2, p3, t))
			}
			for _, t := range axisExtrema(p0.Y, c1.Y, c2.Y, p3.Y) {
				pts = append(pts, cubicAt(p0, c1, c2, p3, t))
			}
		})
	return geom.BoundsOf(pts)
}

// Flatten approximates each subpath of a normalized path as a polygon,
// sampling curves with the given number of steps.
func Flatten(cmds []PathCommand, steps int) [][]geom.Point {
	var polys [][]geom.Point
	var cur []geom.Point
	walkPath(cmds,
		func(p geom.Point) {
			if len(cur) > 0 {
				polys = append(polys, cur)
			}
			cur = []geom.Point{p}
		},
		func(p0, c1, c2, p3 geom.Point, straight bool) {
			if straight {
				cur = append(cur, p3)
				return
			}
			for i := 1; i <= steps; i++ {
				cur = append(cur, cubicAt(p0, c1, c2, p3, float64(i)/float64(steps)))
			}
		})
	if len(cur) > 0 {
		polys = append(polys, cur)
	}
	return polys
}

// mapPath applies fn to every coordinate pair of a normalized path.
func mapPath(cmds []PathCommand, fn func(geom.Point) geom.Point) []PathCommand {
	out := make([]PathCommand, len(cmds))
	for i, c := range cmds {
		args := make([]float64, len(c.Args))
		for j := 0; j+1 < len(c.Args); j += 2 {
			p := fn(geom.Pt(c.Args[j], c.Args[j+1]))
			args[j], args[j+1] = p.X, p.Y
		}
		out[i] = PathCommand{Op: c.Op, Args: args}
	}
	return out
}

// boxMapper maps points from natural bounds nat into a w x h local box.
func boxMapper(nat geom.Rect, w, h float64) func(geom.Point) geom.Point {
	fx, fy := 1.0, 1.0
	if nat.Width != 0 {
		fx = w / nat.Width
	}
	if nat.Height != 0 {
		fy = h / nat.Height
	}
	return func(p geom.Point) geom.Point {
		return geom.Pt((p.X-nat.X)*fx, (p.Y-nat.Y)*fy)
	}
}

func pathToRecord(cmds []PathCommand) []any {
	out := make([]any, len(cmds))
	for i, c := range cmds {
		seg := make([]any, 0, len(c.Args)+1)
		seg = append(seg, c.Op)
		for _, a := range c.Args {
			seg = append(seg, a)
		}
		out[i] = seg
	}
	return out
}

// pathFromRecord reads the [["M", x, y], ...] form.
func pathFromRecord(raw []any) ([]PathCommand, error) {
	out := make([]PathCommand, len(raw))
	for i, item := range raw {
		seg, ok := item.([]any)
		if !ok || len(seg) == 0 {
			return nil, fmt.Errorf("path segment %d: %w", i, ErrMalformed)
		}
		op, ok := seg[0].(string)
		if !ok {
			return nil, fmt.Errorf("path segment %d: op is %T: %w", i, seg[0], ErrMalformed)
		}
		args := make([]float64, len(seg)-1)
		for j, v := range seg[1:] {
			f, ok := toFloat(v)
			if !ok {
				return nil, fmt.Errorf("path segment %d arg %d: %w", i, j, ErrMalformed)
			}
			args[j] = f
		}
		out[i] = PathCommand{Op: op, Args: args}
	}
	return out, nil
}
