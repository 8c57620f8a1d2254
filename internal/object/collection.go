package object

import (
	"fmt"
	"slices"
	"weak"
)

// Collection is an ordered set of shapes. Index 0 is painted first.
// Members hold a weak reference back to the collection, cleared on removal.
type Collection struct {
	Observable

	items []Shape
	subs  map[*Object]ListenerID
}

func NewCollection() *Collection {
	return &Collection{subs: make(map[*Object]ListenerID)}
}

func (c *Collection) Size() int     { return len(c.items) }
func (c *Collection) IsEmpty() bool { return len(c.items) == 0 }

// Item returns the shape at index i.
func (c *Collection) Item(i int) (Shape, error) {
	if i < 0 || i >= len(c.items) {
		return nil, fmt.Errorf("item %d of %d: %w", i, len(c.items), ErrInvalidIndex)
	}
	return c.items[i], nil
}

// IndexOf returns the position of s, or -1.
func (c *Collection) IndexOf(s Shape) int {
	if s == nil {
		return -1
	}
	base := s.Base()
	for i, item := range c.items {
		if item.Base() == base {
			return i
		}
	}
	return -1
}

func (c *Collection) Contains(s Shape) bool {
	return c.IndexOf(s) >= 0
}

// Find returns the member with the given id.
func (c *Collection) Find(id string) (Shape, bool) {
	for _, item := range c.items {
		if item.Base().ID() == id {
			return item, true
		}
	}
	return nil, false
}

// Objects returns the members in paint order, filtered to the given types
// when any are passed.
func (c *Collection) Objects(types ...Type) []Shape {
	if len(types) == 0 {
		return slices.Clone(c.items)
	}
	var out []Shape
	for _, item := range c.items {
		if slices.Contains(types, item.Type()) {
			out = append(out, item)
		}
	}
	return out
}

// ForEach calls fn for each member over a snapshot, so fn may mutate the
// collection.
func (c *Collection) ForEach(fn func(i int, s Shape)) {
	for i, item := range slices.Clone(c.items) {
		fn(i, item)
	}
}

// Complexity sums the members' complexity.
func (c *Collection) Complexity() int {
	n := 0
	for _, item := range c.items {
		n += item.Complexity()
	}
	return n
}

// checkAddable validates that s may join c.
func (c *Collection) checkAddable(s Shape) error {
	if s == nil {
		return fmt.Errorf("add nil shape: %w", ErrNotFound)
	}
	if c.Contains(s) {
		return fmt.Errorf("add %s: %w", idOf(s), ErrDuplicate)
	}
	if owner := s.Base().Owner(); owner != nil && owner != c {
		return fmt.Errorf("add %s: %w", idOf(s), ErrAlreadyOwned)
	}
	return nil
}

// Add appends shapes in order. Nothing is added if any shape is rejected.
func (c *Collection) Add(shapes ...Shape) error {
	for i, s := range shapes {
		if err := c.checkAddable(s); err != nil {
			return err
		}
		for _, prev := range shapes[:i] {
			if prev.Base() == s.Base() {
				return fmt.Errorf("add %s twice: %w", idOf(s), ErrDuplicate)
			}
		}
	}
	for _, s := range shapes {
		c.items = append(c.items, s)
		c.attach(s, len(c.items)-1)
	}
	return nil
}

// InsertAt places s at index. When nonSplicing is false the members from
// index on shift up and 0 <= index <= Size(). When nonSplicing is true the
// member at index is replaced and released, and 0 <= index < Size().
func (c *Collection) InsertAt(s Shape, index int, nonSplicing bool) error {
	if err := c.checkAddable(s); err != nil {
		return err
	}
	limit := len(c.items)
	if nonSplicing {
		limit--
	}
	if index < 0 || index > limit {
		return fmt.Errorf("insert at %d of %d: %w", index, len(c.items), ErrInvalidIndex)
	}

	if nonSplicing {
		old := c.items[index]
		c.items[index] = s
		c.detach(old, index)
	} else {
		c.items = slices.Insert(c.items, index, s)
	}
	c.attach(s, index)
	return nil
}

// Remove deletes s and returns it. A shape that is not a member yields
// ErrNotFound and leaves the collection unchanged.
func (c *Collection) Remove(s Shape) (Shape, error) {
	i := c.IndexOf(s)
	if i < 0 {
		return nil, fmt.Errorf("remove %s: %w", idOf(s), ErrNotFound)
	}
	removed := c.items[i]
	c.items = slices.Delete(c.items, i, i+1)
	c.detach(removed, i)
	return removed, nil
}

// RemoveAll removes each shape in turn and returns those that were members.
// Shapes that are not members are skipped.
func (c *Collection) RemoveAll(shapes ...Shape) []Shape {
	var out []Shape
	for _, s := range shapes {
		if removed, err := c.Remove(s); err == nil {
			out = append(out, removed)
		}
	}
	return out
}

// Clear removes every member and returns them in paint order.
func (c *Collection) Clear() []Shape {
	items := c.items
	c.items = nil
	for i, s := range items {
		c.detach(s, i)
	}
	return items
}

// MoveTo relocates s to index, 0 <= index < Size().
func (c *Collection) MoveTo(s Shape, index int) error {
	i := c.IndexOf(s)
	if i < 0 {
		return fmt.Errorf("move %s: %w", idOf(s), ErrNotFound)
	}
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("move %s to %d of %d: %w", idOf(s), index, len(c.items), ErrInvalidIndex)
	}
	c.relocate(i, index)
	return nil
}

// relocate removes the member at from and reinserts it at to, leaving
// every other member's relative order unchanged.
func (c *Collection) relocate(from, to int) {
	if from == to {
		return
	}
	s := c.items[from]
	c.items = slices.Delete(c.items, from, from+1)
	c.items = slices.Insert(c.items, to, s)
	s.Base().Fire(Event{Type: EventMoved, Target: s, Index: to})
	c.Fire(Event{Type: EventObjectMoved, Target: s, Index: to})
}

// BringForward moves s one step up. With intersecting set it moves just
// above the nearest higher member whose bounding rect touches its own, or
// one step when none does.
func (c *Collection) BringForward(s Shape, intersecting bool) error {
	i := c.IndexOf(s)
	if i < 0 {
		return fmt.Errorf("bring forward %s: %w", idOf(s), ErrNotFound)
	}
	if i == len(c.items)-1 {
		return nil
	}
	to := i + 1
	if intersecting {
		bounds := s.Base().BoundingRect()
		for j := i + 1; j < len(c.items); j++ {
			if c.items[j].Base().BoundingRect().Intersects(bounds) {
				to = j
				break
			}
		}
	}
	c.relocate(i, to)
	return nil
}

// SendBackwards mirrors BringForward downward.
func (c *Collection) SendBackwards(s Shape, intersecting bool) error {
	i := c.IndexOf(s)
	if i < 0 {
		return fmt.Errorf("send backwards %s: %w", idOf(s), ErrNotFound)
	}
	if i == 0 {
		return nil
	}
	to := i - 1
	if intersecting {
		bounds := s.Base().BoundingRect()
		for j := i - 1; j >= 0; j-- {
			if c.items[j].Base().BoundingRect().Intersects(bounds) {
				to = j
				break
			}
		}
	}
	c.relocate(i, to)
	return nil
}

func (c *Collection) BringToFront(s Shape) error {
	i := c.IndexOf(s)
	if i < 0 {
		return fmt.Errorf("bring to front %s: %w", idOf(s), ErrNotFound)
	}
	c.relocate(i, len(c.items)-1)
	return nil
}

func (c *Collection) SendToBack(s Shape) error {
	i := c.IndexOf(s)
	if i < 0 {
		return fmt.Errorf("send to back %s: %w", idOf(s), ErrNotFound)
	}
	c.relocate(i, 0)
	return nil
}

func (c *Collection) attach(s Shape, index int) {
	base := s.Base()
	base.owner = weak.Make(c)
	if c.subs == nil {
		c.subs = make(map[*Object]ListenerID)
	}
	c.subs[base] = base.On(EventModified, func(e Event) {
		c.Fire(Event{Type: EventObjectModified, Target: e.Target, Index: c.IndexOf(e.Target)})
	})
	base.Fire(Event{Type: EventAdded, Target: s, Index: index})
	c.Fire(Event{Type: EventObjectAdded, Target: s, Index: index})
}

func (c *Collection) detach(s Shape, index int) {
	base := s.Base()
	base.owner = weak.Pointer[Collection]{}
	if id, ok := c.subs[base]; ok {
		base.Off(EventModified, id)
		delete(c.subs, base)
	}
	base.Fire(Event{Type: EventRemoved, Target: s, Index: index})
	c.Fire(Event{Type: EventObjectRemoved, Target: s, Index: index})
}

func idOf(s Shape) string {
	if s == nil {
		return "<nil>"
	}
	return s.Base().ID()
}
