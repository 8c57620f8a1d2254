package object

import (
	"fmt"
	"math"
	"weak"

	"github.com/inamate/inamate/canvas-go/internal/geom"
	"github.com/inamate/inamate/canvas-go/internal/intersect"
	"github.com/inamate/inamate/canvas-go/internal/typeid"
)

// Type names a shape variant. The values match the "type" key of records.
type Type string

const (
	TypeRect     Type = "rect"
	TypeEllipse  Type = "ellipse"
	TypeCircle   Type = "circle"
	TypeLine     Type = "line"
	TypeTriangle Type = "triangle"
	TypePath     Type = "path"
	TypePolygon  Type = "polygon"
	TypePolyline Type = "polyline"
	TypeGroup    Type = "group"
	TypeImage    Type = "image"
	TypeText     Type = "text"
)

// Shape is implemented by every variant. Geometry shared by all variants
// lives on *Object, reached through Base.
type Shape interface {
	Base() *Object
	Type() Type
	// ContainsPoint tests p in the owning collection's space. Boundary
	// points are inside.
	ContainsPoint(p geom.Point) bool
	Complexity() int
	// Outline is the shape's path in local box coordinates
	// [0,Width]x[0,Height]; TransformMatrix maps it to the parent space.
	Outline() []PathCommand
	ToObject(include ...Field) Record
}

// Object carries the state every variant shares: identity, transform,
// style, interaction flags, cached control coordinates and the weak link
// to the owning collection.
type Object struct {
	Observable

	self   Shape
	kind   Type
	id     string
	t      Transform
	style  Style
	inter  Interaction
	coords ControlCoords
	owner  weak.Pointer[Collection]
}

// Option configures an object at construction.
type Option func(*Object)

func WithID(id string) Option {
	return func(o *Object) { o.id = id }
}

func WithPosition(left, top float64) Option {
	return func(o *Object) { o.t.Left, o.t.Top = left, top }
}

func WithOrigin(ox OriginX, oy OriginY) Option {
	return func(o *Object) { o.t.OriginX, o.t.OriginY = ox, oy }
}

func WithAngle(deg float64) Option {
	return func(o *Object) { o.t.Angle = deg }
}

// WithScale sets both scales. Negative values flip.
func WithScale(sx, sy float64) Option {
	return func(o *Object) { o.t.ScaleX, o.t.ScaleY = sx, sy }
}

func WithFlip(x, y bool) Option {
	return func(o *Object) { o.t.FlipX, o.t.FlipY = x, y }
}

func WithStyle(s Style) Option {
	return func(o *Object) { o.style = s }
}

func WithFill(color string) Option {
	return func(o *Object) { o.style.Fill = color }
}

// WithGradient fills the shape with g instead of a flat color.
func WithGradient(g *Gradient) Option {
	return func(o *Object) { o.style.FillGradient = g.Clone() }
}

func WithStroke(color string, width float64) Option {
	return func(o *Object) { o.style.Stroke, o.style.StrokeWidth = color, width }
}

func WithOpacity(v float64) Option {
	return func(o *Object) { o.style.Opacity = v }
}

func WithInteraction(in Interaction) Option {
	return func(o *Object) { o.inter = in }
}

// init must be called first by every constructor.
func (o *Object) init(self Shape, kind Type) {
	o.self = self
	o.kind = kind
	o.t = DefaultTransform()
	o.style = DefaultStyle()
	o.inter = DefaultInteraction()
}

// apply runs options after the variant has set its geometry.
func (o *Object) apply(opts []Option) {
	for _, opt := range opts {
		opt(o)
	}
	o.finish()
}

// finish fills in a missing id and derives the coordinate cache.
func (o *Object) finish() {
	if o.id == "" {
		o.id = typeid.NewObjectID()
	}
	if !o.t.OriginX.Valid() {
		o.t.OriginX = OriginLeft
	}
	if !o.t.OriginY.Valid() {
		o.t.OriginY = OriginTop
	}
	o.t.normalize()
	o.SetCoords()
}

func (o *Object) Base() *Object { return o }
func (o *Object) Type() Type    { return o.kind }
func (o *Object) ID() string    { return o.id }

// SetID replaces the identifier. It does not fire an event.
func (o *Object) SetID(id string) { o.id = id }

func (o *Object) IsType(types ...Type) bool {
	for _, t := range types {
		if t == o.kind {
			return true
		}
	}
	return false
}

func (o *Object) Complexity() int { return 1 }

// ContainsPoint tests p against the corner polygon.
func (o *Object) ContainsPoint(p geom.Point) bool {
	return geom.PolygonContains(o.CornerPoints(), p)
}

// Outline is the plain box. Variants with their own geometry override it.
func (o *Object) Outline() []PathCommand {
	return boxOutline(o.t.Width, o.t.Height)
}

// changed re-derives cached coordinates and notifies listeners.
func (o *Object) changed() {
	o.SetCoords()
	o.Fire(Event{Type: EventModified, Target: o.self, Index: -1})
}

// ---- transform state ----

func (o *Object) Transform() Transform { return o.t }

// SetTransform replaces the whole transform in one step.
func (o *Object) SetTransform(t Transform) error {
	if !t.OriginX.Valid() || !t.OriginY.Valid() {
		return fmt.Errorf("set transform %s/%s: %w", t.OriginX, t.OriginY, ErrInvalidOrigin)
	}
	t.normalize()
	o.t = t
	o.changed()
	return nil
}

func (o *Object) Left() float64    { return o.t.Left }
func (o *Object) Top() float64     { return o.t.Top }
func (o *Object) Width() float64   { return o.t.Width }
func (o *Object) Height() float64  { return o.t.Height }
func (o *Object) Angle() float64   { return o.t.Angle }
func (o *Object) ScaleX() float64  { return o.t.ScaleX }
func (o *Object) ScaleY() float64  { return o.t.ScaleY }
func (o *Object) FlipX() bool      { return o.t.FlipX }
func (o *Object) FlipY() bool      { return o.t.FlipY }
func (o *Object) OriginX() OriginX { return o.t.OriginX }
func (o *Object) OriginY() OriginY { return o.t.OriginY }

func (o *Object) ScaledWidth() float64  { return o.t.ScaledSize().X }
func (o *Object) ScaledHeight() float64 { return o.t.ScaledSize().Y }

func (o *Object) SetLeft(v float64) {
	o.t.Left = v
	o.changed()
}

func (o *Object) SetTop(v float64) {
	o.t.Top = v
	o.changed()
}

func (o *Object) SetPosition(left, top float64) {
	o.t.Left, o.t.Top = left, top
	o.changed()
}

// sizeConstraint is implemented by variants whose extents are linked.
// Resizes through Base() consult it, so the variant cannot be bypassed.
type sizeConstraint interface {
	constrainSize(width, height float64, widthChanged bool) (float64, float64)
}

func (o *Object) resize(width, height float64, widthChanged bool) {
	if c, ok := o.self.(sizeConstraint); ok {
		width, height = c.constrainSize(width, height, widthChanged)
	}
	o.t.Width, o.t.Height = width, height
	o.changed()
}

func (o *Object) SetWidth(v float64) {
	o.resize(v, o.t.Height, true)
}

func (o *Object) SetHeight(v float64) {
	o.resize(o.t.Width, v, false)
}

// SetAngle sets the rotation in degrees. With CenteredRotation the center
// stays fixed, otherwise the origin point does.
func (o *Object) SetAngle(deg float64) {
	if o.inter.CenteredRotation {
		center := o.t.CenterPoint()
		o.t.Angle = deg
		o.t.SetPositionByOrigin(center, OriginCenterX, OriginCenterY)
	} else {
		o.t.Angle = deg
	}
	o.changed()
}

// Rotate sets the angle about the center regardless of CenteredRotation.
func (o *Object) Rotate(deg float64) {
	center := o.t.CenterPoint()
	o.t.Angle = deg
	o.t.SetPositionByOrigin(center, OriginCenterX, OriginCenterY)
	o.changed()
}

// Straighten snaps the angle to the nearest multiple of 90 degrees.
func (o *Object) Straighten() {
	a := math.Mod(o.t.Angle, 360)
	o.SetAngle(math.Round(a/90) * 90)
}

// SetScaleX sets the horizontal scale; a negative value toggles FlipX.
func (o *Object) SetScaleX(v float64) {
	o.t.ScaleX = v
	o.t.normalize()
	o.changed()
}

func (o *Object) SetScaleY(v float64) {
	o.t.ScaleY = v
	o.t.normalize()
	o.changed()
}

// Scale sets both scales to v.
func (o *Object) Scale(v float64) {
	o.t.ScaleX, o.t.ScaleY = v, v
	o.t.normalize()
	o.changed()
}

// ScaleToWidth scales uniformly so the bounding rect is w wide.
func (o *Object) ScaleToWidth(w float64) error {
	bw := o.BoundingRect().Width
	if bw == 0 {
		return fmt.Errorf("scale %s to width %g: zero-width bounds: %w", o.id, w, geom.ErrDomain)
	}
	o.Scale(w * o.t.ScaleX / bw)
	return nil
}

// ScaleToHeight scales uniformly so the bounding rect is h tall.
func (o *Object) ScaleToHeight(h float64) error {
	bh := o.BoundingRect().Height
	if bh == 0 {
		return fmt.Errorf("scale %s to height %g: zero-height bounds: %w", o.id, h, geom.ErrDomain)
	}
	o.Scale(h * o.t.ScaleY / bh)
	return nil
}

func (o *Object) SetFlipX(v bool) {
	o.t.FlipX = v
	o.changed()
}

func (o *Object) SetFlipY(v bool) {
	o.t.FlipY = v
	o.changed()
}

// SetOrigin changes the reference point. Left and Top are kept, so the
// shape moves; use AdjustOrigin to keep it in place.
func (o *Object) SetOrigin(ox OriginX, oy OriginY) error {
	if !ox.Valid() || !oy.Valid() {
		return fmt.Errorf("set origin %s/%s: %w", ox, oy, ErrInvalidOrigin)
	}
	o.t.OriginX, o.t.OriginY = ox, oy
	o.changed()
	return nil
}

// AdjustOrigin changes the reference point without moving the shape.
func (o *Object) AdjustOrigin(ox OriginX, oy OriginY) error {
	if !ox.Valid() || !oy.Valid() {
		return fmt.Errorf("adjust origin %s/%s: %w", ox, oy, ErrInvalidOrigin)
	}
	o.t.AdjustOrigin(ox, oy)
	o.changed()
	return nil
}

// AdjustPosition changes only the horizontal reference point, keeping the
// shape in place.
func (o *Object) AdjustPosition(to OriginX) error {
	return o.AdjustOrigin(to, o.t.OriginY)
}

// SetPositionByOrigin moves the shape so its (ox, oy) point lands on pos.
func (o *Object) SetPositionByOrigin(pos geom.Point, ox OriginX, oy OriginY) {
	o.t.SetPositionByOrigin(pos, ox, oy)
	o.changed()
}

func (o *Object) CenterPoint() geom.Point { return o.t.CenterPoint() }

func (o *Object) PointByOrigin(ox OriginX, oy OriginY) geom.Point {
	return o.t.PointByOrigin(ox, oy)
}

func (o *Object) TranslateToCenterPoint(p geom.Point, ox OriginX, oy OriginY) geom.Point {
	return o.t.TranslateToCenterPoint(p, ox, oy)
}

func (o *Object) TranslateToOriginPoint(center geom.Point, ox OriginX, oy OriginY) geom.Point {
	return o.t.TranslateToOriginPoint(center, ox, oy)
}

func (o *Object) ToLocalPoint(p geom.Point, ox OriginX, oy OriginY) geom.Point {
	return o.t.ToLocalPoint(p, ox, oy)
}

// TransformMatrix maps Outline coordinates into the parent space.
func (o *Object) TransformMatrix() geom.Matrix2D { return o.t.Matrix() }

// ---- style and interaction ----

// Style returns a copy of the paint state.
func (o *Object) Style() Style {
	s := o.style
	s.FillGradient = s.FillGradient.Clone()
	return s
}

func (o *Object) SetStyle(s Style) {
	s.FillGradient = s.FillGradient.Clone()
	o.style = s
	o.Fire(Event{Type: EventModified, Target: o.self, Index: -1})
}

func (o *Object) Visible() bool { return o.style.Visible }

func (o *Object) SetVisible(v bool) {
	o.style.Visible = v
	o.Fire(Event{Type: EventModified, Target: o.self, Index: -1})
}

func (o *Object) Interaction() Interaction { return o.inter }

func (o *Object) SetInteraction(in Interaction) {
	o.inter = in
	o.changed()
}

// ---- coordinates ----

// SetCoords recomputes the cached control coordinates.
func (o *Object) SetCoords() *Object {
	o.coords = computeCoords(o.t, o.inter)
	return o
}

func (o *Object) Coords() ControlCoords { return o.coords }

// CornerPoints returns tl, tr, br, bl from the coordinate cache.
func (o *Object) CornerPoints() []geom.Point { return o.coords.Corners() }

// BoundingRect is the tight axis-aligned box of the four corners.
func (o *Object) BoundingRect() geom.Rect {
	return geom.BoundsOf(o.CornerPoints())
}

// ControlAt reports which control square contains p. Controls are only
// hit when HasControls is set; mtr also needs HasRotatingPoint.
func (o *Object) ControlAt(p geom.Point) (Control, bool) {
	if !o.inter.HasControls {
		return "", false
	}
	for _, ctrl := range Controls {
		if ctrl == ControlMTR && !o.inter.HasRotatingPoint {
			continue
		}
		cp, _ := o.coords.Get(ctrl)
		if geom.PolygonContains(cp.Corner[:], p) {
			return ctrl, true
		}
	}
	return "", false
}

// ---- relations ----

// IntersectsWithObject reports whether the corner polygons' edges touch or
// cross. A shape strictly inside the other does not intersect.
func (o *Object) IntersectsWithObject(other Shape) bool {
	return intersect.PolygonPolygon(o.CornerPoints(), other.Base().CornerPoints()).Found()
}

// IntersectsWithRect reports whether any corner-polygon edge touches the
// rectangle spanned by tl and br.
func (o *Object) IntersectsWithRect(tl, br geom.Point) bool {
	return intersect.PolygonRectangle(o.CornerPoints(), tl, br).Found()
}

// IsContainedWithinObject reports whether all four corners lie inside the
// other shape's corner polygon, edges included.
func (o *Object) IsContainedWithinObject(other Shape) bool {
	poly := other.Base().CornerPoints()
	for _, c := range o.CornerPoints() {
		if !geom.PolygonContains(poly, c) {
			return false
		}
	}
	return true
}

func (o *Object) IsContainedWithinRect(tl, br geom.Point) bool {
	r := geom.RectFromPoints(tl, br)
	for _, c := range o.CornerPoints() {
		if !r.Contains(c) {
			return false
		}
	}
	return true
}

// containsOutline tests p against the flattened outline in parent space.
func (o *Object) containsOutline(p geom.Point) bool {
	m := o.TransformMatrix()
	for _, poly := range Flatten(o.self.Outline(), flattenSteps) {
		for i := range poly {
			poly[i] = m.Apply(poly[i])
		}
		if geom.PolygonContains(poly, p) {
			return true
		}
	}
	return false
}

// ---- ownership ----

// Owner returns the collection holding the shape, or nil.
func (o *Object) Owner() *Collection { return o.owner.Value() }

func (o *Object) mustOwner(op string) (*Collection, error) {
	c := o.Owner()
	if c == nil {
		return nil, fmt.Errorf("%s %s: %w", op, o.id, ErrNoOwner)
	}
	return c, nil
}

func (o *Object) BringForward(intersecting bool) error {
	c, err := o.mustOwner("bring forward")
	if err != nil {
		return err
	}
	return c.BringForward(o.self, intersecting)
}

func (o *Object) SendBackwards(intersecting bool) error {
	c, err := o.mustOwner("send backwards")
	if err != nil {
		return err
	}
	return c.SendBackwards(o.self, intersecting)
}

func (o *Object) BringToFront() error {
	c, err := o.mustOwner("bring to front")
	if err != nil {
		return err
	}
	return c.BringToFront(o.self)
}

func (o *Object) SendToBack() error {
	c, err := o.mustOwner("send to back")
	if err != nil {
		return err
	}
	return c.SendToBack(o.self)
}

func (o *Object) MoveTo(index int) error {
	c, err := o.mustOwner("move")
	if err != nil {
		return err
	}
	return c.MoveTo(o.self, index)
}

// Remove detaches the shape from its owner.
func (o *Object) Remove() error {
	c, err := o.mustOwner("remove")
	if err != nil {
		return err
	}
	_, err = c.Remove(o.self)
	return err
}

// Clone deep-copies a shape through its record form. The copy has a new id
// and no owner.
func Clone(s Shape) (Shape, error) {
	r := s.ToObject()
	delete(r, string(FieldID))
	return FromObject(r)
}
