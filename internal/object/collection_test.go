package object

import (
	"errors"
	"slices"
	"testing"
)

func ids(c *Collection) []string {
	var out []string
	for _, s := range c.Objects() {
		out = append(out, s.Base().ID())
	}
	return out
}

func named(id string, left, top float64) *Rect {
	return NewRect(10, 10, WithID(id), WithPosition(left, top))
}

func TestCollectionAdd(t *testing.T) {
	c := NewCollection()
	a, b := named("a", 0, 0), named("b", 20, 0)

	var added []string
	c.On(EventObjectAdded, func(e Event) { added = append(added, e.Target.Base().ID()) })

	if err := c.Add(a, b); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if !slices.Equal(added, []string{"a", "b"}) {
		t.Errorf("added events = %v", added)
	}
	if a.Owner() != c {
		t.Error("owner not set")
	}

	if err := c.Add(a); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate Add error = %v, want ErrDuplicate", err)
	}

	other := NewCollection()
	if err := other.Add(named("x", 0, 0), a); !errors.Is(err, ErrAlreadyOwned) {
		t.Errorf("owned Add error = %v, want ErrAlreadyOwned", err)
	}
	if other.Size() != 0 {
		t.Errorf("rejected Add left %d members", other.Size())
	}

	x := named("x", 0, 0)
	if err := other.Add(x, x); !errors.Is(err, ErrDuplicate) {
		t.Errorf("repeated shape error = %v, want ErrDuplicate", err)
	}
}

func TestCollectionInsertAt(t *testing.T) {
	build := func() (*Collection, []*Rect) {
		c := NewCollection()
		var rs []*Rect
		for _, id := range []string{"a", "b", "c", "d", "e"} {
			r := named(id, 0, 0)
			rs = append(rs, r)
			if err := c.Add(r); err != nil {
				t.Fatalf("Add failed: %v", err)
			}
		}
		return c, rs
	}

	t.Run("splicing", func(t *testing.T) {
		c, _ := build()
		if err := c.InsertAt(named("x", 0, 0), 2, false); err != nil {
			t.Fatalf("InsertAt failed: %v", err)
		}
		if got := ids(c); !slices.Equal(got, []string{"a", "b", "x", "c", "d", "e"}) {
			t.Errorf("order = %v", got)
		}
		if err := c.InsertAt(named("y", 0, 0), 6, false); err != nil {
			t.Errorf("InsertAt(len) failed: %v", err)
		}
	})

	t.Run("non-splicing", func(t *testing.T) {
		c, rs := build()
		if err := c.InsertAt(named("x", 0, 0), 2, true); err != nil {
			t.Fatalf("InsertAt failed: %v", err)
		}
		if got := ids(c); !slices.Equal(got, []string{"a", "b", "x", "d", "e"}) {
			t.Errorf("order = %v", got)
		}
		if rs[2].Owner() != nil {
			t.Error("replaced member should be released")
		}
		if err := c.InsertAt(named("y", 0, 0), 5, true); !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("InsertAt(len, nonSplicing) error = %v, want ErrInvalidIndex", err)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		c, _ := build()
		for _, i := range []int{-1, 6} {
			if err := c.InsertAt(named("x", 0, 0), i, false); !errors.Is(err, ErrInvalidIndex) {
				t.Errorf("InsertAt(%d) error = %v, want ErrInvalidIndex", i, err)
			}
		}
		if c.Size() != 5 {
			t.Errorf("size = %d after failed inserts", c.Size())
		}
	})
}

func TestCollectionRemove(t *testing.T) {
	c := NewCollection()
	a, b := named("a", 0, 0), named("b", 0, 0)
	if err := c.Add(a, b); err != nil {
		t.Fatal(err)
	}

	var removed []int
	c.On(EventObjectRemoved, func(e Event) { removed = append(removed, e.Index) })

	got, err := c.Remove(a)
	if err != nil || got != Shape(a) {
		t.Fatalf("Remove = %v, %v", got, err)
	}
	if a.Owner() != nil {
		t.Error("removed shape keeps its owner")
	}
	if _, err := c.Remove(a); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove error = %v, want ErrNotFound", err)
	}
	if c.Size() != 1 || !slices.Equal(removed, []int{0}) {
		t.Errorf("size=%d removed=%v", c.Size(), removed)
	}

	if err := a.Remove(); !errors.Is(err, ErrNoOwner) {
		t.Errorf("unowned Remove error = %v, want ErrNoOwner", err)
	}
	if err := b.Remove(); err != nil || c.Size() != 0 {
		t.Errorf("self Remove: err=%v size=%d", err, c.Size())
	}
}

func TestCollectionQueries(t *testing.T) {
	c := NewCollection()
	r := named("r", 0, 0)
	circ := NewCircle(5, WithID("c"))
	if err := c.Add(r, circ); err != nil {
		t.Fatal(err)
	}

	if s, err := c.Item(1); err != nil || s != Shape(circ) {
		t.Errorf("Item(1) = %v, %v", s, err)
	}
	if _, err := c.Item(2); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("Item(2) error = %v, want ErrInvalidIndex", err)
	}
	if s, ok := c.Find("c"); !ok || s != Shape(circ) {
		t.Errorf("Find(c) = %v, %v", s, ok)
	}
	if got := c.Objects(TypeCircle); len(got) != 1 || got[0] != Shape(circ) {
		t.Errorf("Objects(circle) = %v", got)
	}
	if c.IndexOf(NewRect(1, 1)) != -1 {
		t.Error("IndexOf(stranger) should be -1")
	}
	if c.Complexity() != 2 {
		t.Errorf("Complexity() = %d, want 2", c.Complexity())
	}

	var visited []int
	c.ForEach(func(i int, s Shape) {
		visited = append(visited, i)
		if i == 0 {
			_, _ = c.Remove(s)
		}
	})
	if !slices.Equal(visited, []int{0, 1}) {
		t.Errorf("ForEach visited %v over a snapshot", visited)
	}
}

func TestZOrder(t *testing.T) {
	// c overlaps a; b is apart from both.
	setup := func() (*Collection, *Rect, *Rect, *Rect) {
		col := NewCollection()
		a, b, c := named("a", 0, 0), named("b", 100, 100), named("c", 5, 5)
		if err := col.Add(a, b, c); err != nil {
			t.Fatal(err)
		}
		return col, a, b, c
	}

	tests := []struct {
		name string
		op   func(a, b, c *Rect) error
		want []string
	}{
		{"bring forward intersecting", func(a, _, _ *Rect) error { return a.BringForward(true) }, []string{"b", "c", "a"}},
		{"bring forward one step", func(a, _, _ *Rect) error { return a.BringForward(false) }, []string{"b", "a", "c"}},
		{"send backwards intersecting", func(_, _, c *Rect) error { return c.SendBackwards(true) }, []string{"c", "a", "b"}},
		{"send backwards one step", func(_, _, c *Rect) error { return c.SendBackwards(false) }, []string{"a", "c", "b"}},
		{"intersecting without overlap steps once", func(_, b, _ *Rect) error { return b.BringForward(true) }, []string{"a", "c", "b"}},
		{"bring to front", func(a, _, _ *Rect) error { return a.BringToFront() }, []string{"b", "c", "a"}},
		{"send to back", func(_, _, c *Rect) error { return c.SendToBack() }, []string{"c", "a", "b"}},
		{"top stays top", func(_, _, c *Rect) error { return c.BringForward(false) }, []string{"a", "b", "c"}},
		{"bottom stays bottom", func(a, _, _ *Rect) error { return a.SendBackwards(true) }, []string{"a", "b", "c"}},
		{"move to", func(a, _, _ *Rect) error { return a.MoveTo(1) }, []string{"b", "a", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, a, b, c := setup()
			if err := tt.op(a, b, c); err != nil {
				t.Fatalf("op failed: %v", err)
			}
			if got := ids(col); !slices.Equal(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrontThenBackKeepsOthersInOrder(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f"}
	for i, name := range names {
		t.Run(name, func(t *testing.T) {
			col := NewCollection()
			var shapes []*Rect
			for j, id := range names {
				r := named(id, float64(j*3), 0)
				shapes = append(shapes, r)
				if err := col.Add(r); err != nil {
					t.Fatal(err)
				}
			}
			x := shapes[i]
			others := slices.DeleteFunc(slices.Clone(names), func(id string) bool { return id == name })

			if err := col.BringToFront(x); err != nil {
				t.Fatalf("BringToFront failed: %v", err)
			}
			if got := ids(col); !slices.Equal(got[:len(got)-1], others) || got[len(got)-1] != name {
				t.Fatalf("after BringToFront order = %v", got)
			}
			if err := col.SendToBack(x); err != nil {
				t.Fatalf("SendToBack failed: %v", err)
			}
			got := ids(col)
			if col.IndexOf(x) != 0 {
				t.Errorf("index = %d, want 0", col.IndexOf(x))
			}
			if !slices.Equal(got[1:], others) {
				t.Errorf("others = %v, want %v", got[1:], others)
			}
		})
	}
}

func TestReplaceReleasesOwner(t *testing.T) {
	col := NewCollection()
	a, b, c := named("a", 0, 0), named("b", 0, 0), named("c", 0, 0)
	if err := col.Add(a, b, c); err != nil {
		t.Fatal(err)
	}
	var removed []string
	col.On(EventObjectRemoved, func(e Event) { removed = append(removed, e.Target.Base().ID()) })

	x := named("x", 0, 0)
	if err := col.InsertAt(x, 1, true); err != nil {
		t.Fatalf("InsertAt failed: %v", err)
	}
	if b.Owner() != nil {
		t.Error("replaced member still has an owner")
	}
	if x.Owner() != col {
		t.Error("replacement has no owner")
	}
	if !slices.Equal(removed, []string{"b"}) {
		t.Errorf("removed events = %v, want [b]", removed)
	}
	if col.Contains(b) {
		t.Error("replaced member still contained")
	}

	other := NewCollection()
	if err := other.Add(b); err != nil {
		t.Errorf("released member should be addable elsewhere: %v", err)
	}
}

func TestZOrderErrors(t *testing.T) {
	col := NewCollection()
	a := named("a", 0, 0)
	if err := col.Add(a); err != nil {
		t.Fatal(err)
	}
	if err := a.MoveTo(1); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("MoveTo(1) error = %v, want ErrInvalidIndex", err)
	}
	if err := col.BringToFront(named("z", 0, 0)); !errors.Is(err, ErrNotFound) {
		t.Errorf("BringToFront(stranger) error = %v, want ErrNotFound", err)
	}
	if err := named("z", 0, 0).SendToBack(); !errors.Is(err, ErrNoOwner) {
		t.Errorf("SendToBack without owner error = %v, want ErrNoOwner", err)
	}
}

func TestMovedAndModifiedEvents(t *testing.T) {
	col := NewCollection()
	a, b := named("a", 0, 0), named("b", 0, 0)
	if err := col.Add(a, b); err != nil {
		t.Fatal(err)
	}

	var moved, modified []int
	col.On(EventObjectMoved, func(e Event) { moved = append(moved, e.Index) })
	col.On(EventObjectModified, func(e Event) { modified = append(modified, e.Index) })
	selfMoved := 0
	a.On(EventMoved, func(Event) { selfMoved++ })

	if err := a.BringToFront(); err != nil {
		t.Fatal(err)
	}
	a.SetLeft(3)
	if _, err := col.Remove(a); err != nil {
		t.Fatal(err)
	}
	a.SetLeft(4)

	if !slices.Equal(moved, []int{1}) || selfMoved != 1 {
		t.Errorf("moved=%v selfMoved=%d", moved, selfMoved)
	}
	if !slices.Equal(modified, []int{1}) {
		t.Errorf("modified = %v, want [1] with no event after removal", modified)
	}
}

func TestCollectionRemoveAll(t *testing.T) {
	col := NewCollection()
	a, b, c := named("a", 0, 0), named("b", 0, 0), named("c", 0, 0)
	if err := col.Add(a, b, c); err != nil {
		t.Fatal(err)
	}
	out := col.RemoveAll(a, named("stranger", 0, 0), c)
	if len(out) != 2 {
		t.Errorf("RemoveAll returned %d shapes, want 2", len(out))
	}
	if got := ids(col); !slices.Equal(got, []string{"b"}) {
		t.Errorf("remaining = %v", got)
	}
}

func TestCollectionClear(t *testing.T) {
	col := NewCollection()
	a, b := named("a", 0, 0), named("b", 0, 0)
	if err := col.Add(a, b); err != nil {
		t.Fatal(err)
	}
	out := col.Clear()
	if len(out) != 2 || !col.IsEmpty() {
		t.Fatalf("Clear returned %d, size %d", len(out), col.Size())
	}
	if a.Owner() != nil || b.Owner() != nil {
		t.Error("cleared shapes keep their owner")
	}
	if err := NewCollection().Add(a); err != nil {
		t.Errorf("cleared shape cannot join another collection: %v", err)
	}
}
