// Package canvas is the top-level scene: a z-ordered collection of shapes
// with a size, a background and the queries an editor needs for picking and
// selection.
package canvas

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/inamate/inamate/canvas-go/internal/document"
	"github.com/inamate/inamate/canvas-go/internal/geom"
	"github.com/inamate/inamate/canvas-go/internal/object"
)

const defaultBackground = "#ffffff"

// Canvas owns the top-level shapes. Shape coordinates are canvas pixels.
type Canvas struct {
	*object.Collection

	width      float64
	height     float64
	background string
}

func New(width, height float64) *Canvas {
	return &Canvas{
		Collection: object.NewCollection(),
		width:      width,
		height:     height,
		background: defaultBackground,
	}
}

func (c *Canvas) Width() float64     { return c.width }
func (c *Canvas) Height() float64    { return c.height }
func (c *Canvas) Background() string { return c.background }

func (c *Canvas) SetDimensions(width, height float64) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("canvas size %gx%g: %w", width, height, geom.ErrDomain)
	}
	c.width, c.height = width, height
	return nil
}

func (c *Canvas) SetBackground(color string) { c.background = color }

// Center is the middle of the canvas.
func (c *Canvas) Center() geom.Point {
	return geom.Pt(c.width/2, c.height/2)
}

// CenterObject moves s so its center is the canvas center.
func (c *Canvas) CenterObject(s object.Shape) {
	s.Base().SetPositionByOrigin(c.Center(), object.OriginCenterX, object.OriginCenterY)
}

// CenterObjectH centers s horizontally, keeping its vertical center.
func (c *Canvas) CenterObjectH(s object.Shape) {
	o := s.Base()
	o.SetPositionByOrigin(geom.Pt(c.width/2, o.CenterPoint().Y), object.OriginCenterX, object.OriginCenterY)
}

// CenterObjectV centers s vertically, keeping its horizontal center.
func (c *Canvas) CenterObjectV(s object.Shape) {
	o := s.Base()
	o.SetPositionByOrigin(geom.Pt(o.CenterPoint().X, c.height/2), object.OriginCenterX, object.OriginCenterY)
}

// StraightenObject snaps the shape with the given id to a multiple of 90
// degrees.
func (c *Canvas) StraightenObject(id string) error {
	s, ok := c.Find(id)
	if !ok {
		return fmt.Errorf("straighten %s: %w", id, object.ErrNotFound)
	}
	s.Base().Straighten()
	return nil
}

func hittable(s object.Shape) bool {
	o := s.Base()
	return o.Visible() && o.Interaction().Evented
}

// FindTarget returns the topmost visible, evented shape containing p.
// Groups are hit as a whole.
func (c *Canvas) FindTarget(p geom.Point) (object.Shape, bool) {
	items := c.Objects()
	for i := len(items) - 1; i >= 0; i-- {
		if hittable(items[i]) && items[i].ContainsPoint(p) {
			return items[i], true
		}
	}
	return nil, false
}

// TargetsAt returns every visible, evented shape containing p, topmost
// first.
func (c *Canvas) TargetsAt(p geom.Point) []object.Shape {
	var out []object.Shape
	items := c.Objects()
	for i := len(items) - 1; i >= 0; i-- {
		if hittable(items[i]) && items[i].ContainsPoint(p) {
			out = append(out, items[i])
		}
	}
	return out
}

// ObjectsInRect returns the selectable, visible shapes a marquee from a to b
// picks up, in paint order. A shape is picked when its outline crosses the
// marquee, lies inside it, or contains either marquee corner.
func (c *Canvas) ObjectsInRect(a, b geom.Point) []object.Shape {
	r := geom.RectFromPoints(a, b)
	tl, br := r.TopLeft(), r.BottomRight()

	var out []object.Shape
	for _, s := range c.Objects() {
		o := s.Base()
		if !o.Visible() || !o.Interaction().Selectable {
			continue
		}
		if o.IntersectsWithRect(tl, br) || o.IsContainedWithinRect(tl, br) ||
			s.ContainsPoint(a) || s.ContainsPoint(b) {
			out = append(out, s)
		}
	}
	return out
}

// SelectionBounds is the union of the bounding rects of the shapes with the
// given ids. Unknown ids are skipped; ok is false when none matched.
func (c *Canvas) SelectionBounds(ids ...string) (r geom.Rect, ok bool) {
	for _, id := range ids {
		s, found := c.Find(id)
		if !found {
			continue
		}
		b := s.Base().BoundingRect()
		if !ok {
			r, ok = b, true
			continue
		}
		r = geom.Extend(r, b)
	}
	return r, ok
}

// Clear removes every shape, returning them in paint order, and resets the
// background.
func (c *Canvas) Clear() []object.Shape {
	c.background = defaultBackground
	return c.Collection.Clear()
}

// ToDocument captures the canvas. Records carry ids so that later edits can
// address shapes.
func (c *Canvas) ToDocument(include ...object.Field) *document.Document {
	if !slices.Contains(include, object.FieldID) {
		include = append(include, object.FieldID)
	}
	doc := document.NewEmptyDocument(c.width, c.height)
	doc.Background = c.background
	for _, s := range c.Objects() {
		doc.Objects = append(doc.Objects, s.ToObject(include...))
	}
	return doc
}

func (c *Canvas) ToJSON(include ...object.Field) ([]byte, error) {
	return json.Marshal(c.ToDocument(include...))
}

// LoadDocument replaces the canvas content. Every record is decoded before
// anything changes, so a bad record leaves the canvas untouched.
func (c *Canvas) LoadDocument(doc *document.Document) error {
	shapes := make([]object.Shape, 0, len(doc.Objects))
	seen := make(map[string]bool, len(doc.Objects))
	for i, rec := range doc.Objects {
		s, err := object.FromObject(rec)
		if err != nil {
			return fmt.Errorf("load object %d: %w", i, err)
		}
		id := s.Base().ID()
		if seen[id] {
			return fmt.Errorf("load object %d: id %s: %w", i, id, object.ErrDuplicate)
		}
		seen[id] = true
		shapes = append(shapes, s)
	}

	c.Collection.Clear()
	c.width, c.height = doc.Width, doc.Height
	if doc.Background != "" {
		c.background = doc.Background
	}
	return c.Add(shapes...)
}

// LoadFromJSON parses and loads a document.
func (c *Canvas) LoadFromJSON(data []byte) error {
	doc, err := document.Parse(data)
	if err != nil {
		return err
	}
	return c.LoadDocument(doc)
}

// FromDocument builds a new canvas from a document.
func FromDocument(doc *document.Document) (*Canvas, error) {
	c := New(doc.Width, doc.Height)
	if err := c.LoadDocument(doc); err != nil {
		return nil, err
	}
	return c, nil
}
