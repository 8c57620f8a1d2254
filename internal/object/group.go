package object

import (
	"fmt"

	"github.com/inamate/inamate/canvas-go/internal/geom"
)

// Group is a shape made of other shapes. Members are stored relative to
// the group's center; the group's transform places them in the parent
// space.
type Group struct {
	Object
	members *Collection
}

// NewGroup builds a group around shapes given in the parent space. The box
// is fitted to the members, so position options are ignored; angle, scale
// and flip options are applied about the fitted center.
func NewGroup(shapes []Shape, opts ...Option) (*Group, error) {
	g := newGroup()
	if err := g.members.Add(shapes...); err != nil {
		return nil, fmt.Errorf("new group: %w", err)
	}
	g.apply(opts)

	want := g.t
	g.fit()
	center := g.t.CenterPoint()
	g.t.ScaleX, g.t.ScaleY = want.ScaleX, want.ScaleY
	g.t.FlipX, g.t.FlipY = want.FlipX, want.FlipY
	g.t.Angle = want.Angle
	g.t.SetPositionByOrigin(center, OriginCenterX, OriginCenterY)
	g.SetCoords()
	return g, nil
}

func newGroup() *Group {
	g := &Group{members: NewCollection()}
	g.init(g, TypeGroup)
	g.style.Fill = ""
	g.members.On(EventObjectModified, func(Event) {
		g.Fire(Event{Type: EventModified, Target: g, Index: -1})
	})
	return g
}

// Members exposes the member collection, including z-order operations.
func (g *Group) Members() *Collection { return g.members }

func (g *Group) Objects(types ...Type) []Shape { return g.members.Objects(types...) }
func (g *Group) Size() int                     { return g.members.Size() }
func (g *Group) Contains(s Shape) bool         { return g.members.Contains(s) }
func (g *Group) Item(i int) (Shape, error)     { return g.members.Item(i) }

func (g *Group) Complexity() int { return g.members.Complexity() }

// ChildMatrix maps member coordinates into the group's parent space.
func (g *Group) ChildMatrix() geom.Matrix2D {
	return g.t.centerMatrix()
}

// fit resets the group transform to identity, sizes the box around the
// members (which must be in the parent space) and re-expresses them
// relative to the new center.
func (g *Group) fit() {
	items := g.members.items
	g.t.Angle = 0
	g.t.ScaleX, g.t.ScaleY = 1, 1
	g.t.FlipX, g.t.FlipY = false, false
	if len(items) == 0 {
		g.t.Width, g.t.Height = 0, 0
		g.SetCoords()
		return
	}

	b := items[0].Base().BoundingRect()
	for _, s := range items[1:] {
		b = geom.Extend(b, s.Base().BoundingRect())
	}
	center := b.Center()
	g.t.Width, g.t.Height = b.Width, b.Height
	g.t.SetPositionByOrigin(center, OriginCenterX, OriginCenterY)

	for _, s := range items {
		o := s.Base()
		o.t.SetPositionByOrigin(o.CenterPoint().Subtract(center), OriginCenterX, OriginCenterY)
		o.SetCoords()
	}
	g.SetCoords()
}

// restore moves a member from group space into the parent space, folding
// the group's angle, scale and flips into its own transform.
func (g *Group) restore(s Shape) {
	o := s.Base()
	center := g.t.centerMatrix().Apply(o.CenterPoint())
	o.t.Angle += g.t.Angle
	o.t.ScaleX *= g.t.ScaleX
	o.t.ScaleY *= g.t.ScaleY
	o.t.FlipX = o.t.FlipX != g.t.FlipX
	o.t.FlipY = o.t.FlipY != g.t.FlipY
	o.t.SetPositionByOrigin(center, OriginCenterX, OriginCenterY)
	o.SetCoords()
}

func (g *Group) restoreAll() {
	for _, s := range g.members.items {
		g.restore(s)
	}
}

// AddWithUpdate adds a shape given in the parent space and refits the
// group. The group's angle and scale are folded into its members.
func (g *Group) AddWithUpdate(s Shape) error {
	if err := g.members.checkAddable(s); err != nil {
		return fmt.Errorf("group add: %w", err)
	}
	g.restoreAll()
	if err := g.members.Add(s); err != nil {
		return fmt.Errorf("group add: %w", err)
	}
	g.fit()
	g.changed()
	return nil
}

// RemoveWithUpdate removes a member, returns it in the parent space and
// refits the group around the rest.
func (g *Group) RemoveWithUpdate(s Shape) (Shape, error) {
	if !g.members.Contains(s) {
		return nil, fmt.Errorf("group remove %s: %w", idOf(s), ErrNotFound)
	}
	g.restoreAll()
	removed, err := g.members.Remove(s)
	if err != nil {
		return nil, err
	}
	g.fit()
	g.changed()
	return removed, nil
}

// Destroy dissolves the group and returns its members in the parent space,
// in paint order, with no owner.
func (g *Group) Destroy() []Shape {
	g.restoreAll()
	items := g.members.Clear()
	g.fit()
	g.changed()
	return items
}

func (g *Group) ToObject(include ...Field) Record {
	rec := g.baseRecord(include)
	objects := make([]any, 0, g.members.Size())
	for _, s := range g.members.items {
		objects = append(objects, map[string]any(s.ToObject(include...)))
	}
	rec["objects"] = objects
	return rec
}

// groupFromObject restores members as stored, relative to the group center,
// without refitting.
func groupFromObject(rd *recordReader) (Shape, error) {
	rd.require("objects")
	list, _ := rd.list("objects")
	if rd.err != nil {
		return nil, rd.err
	}

	children := make([]Shape, 0, len(list))
	for i, v := range list {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field objects[%d]: want object, got %T: %w", i, v, ErrMalformed)
		}
		child, err := FromObject(m)
		if err != nil {
			return nil, fmt.Errorf("objects[%d]: %w", i, err)
		}
		children = append(children, child)
	}

	g := newGroup()
	g.decodeBase(rd)
	if rd.err != nil {
		return nil, rd.err
	}
	if err := g.members.Add(children...); err != nil {
		return nil, err
	}
	g.finish()
	return g, nil
}
