package object

import "math"

// Rect is a box with optional rounded corners.
type Rect struct {
	Object
	rx, ry float64
}

func NewRect(width, height float64, opts ...Option) *Rect {
	r := &Rect{}
	r.init(r, TypeRect)
	r.t.Width, r.t.Height = width, height
	r.apply(opts)
	return r
}

func (r *Rect) RX() float64 { return r.rx }
func (r *Rect) RY() float64 { return r.ry }

// SetRadii sets the corner radii. They only change the outline.
func (r *Rect) SetRadii(rx, ry float64) {
	r.rx, r.ry = math.Abs(rx), math.Abs(ry)
	r.changed()
}

func (r *Rect) Outline() []PathCommand {
	w, h := r.t.Width, r.t.Height
	rx, ry := math.Min(r.rx, w/2), math.Min(r.ry, h/2)
	if rx == 0 || ry == 0 {
		return boxOutline(w, h)
	}
	k := 1 - kappa
	return []PathCommand{
		cmd("M", rx, 0),
		cmd("L", w-rx, 0),
		cmd("C", w-k*rx, 0, w, k*ry, w, ry),
		cmd("L", w, h-ry),
		cmd("C", w, h-k*ry, w-k*rx, h, w-rx, h),
		cmd("L", rx, h),
		cmd("C", k*rx, h, 0, h-k*ry, 0, h-ry),
		cmd("L", 0, ry),
		cmd("C", 0, k*ry, k*rx, 0, rx, 0),
		cmd("Z"),
	}
}

func (r *Rect) ToObject(include ...Field) Record {
	rec := r.baseRecord(include)
	rec["rx"] = r.rx
	rec["ry"] = r.ry
	return rec
}

func rectFromObject(rd *recordReader) (Shape, error) {
	r := &Rect{}
	r.init(r, TypeRect)
	rd.float("rx", &r.rx)
	rd.float("ry", &r.ry)
	r.decodeBase(rd)
	if rd.err != nil {
		return nil, rd.err
	}
	r.finish()
	return r, nil
}
