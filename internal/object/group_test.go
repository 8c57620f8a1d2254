package object

import (
	"errors"
	"testing"

	"github.com/inamate/inamate/canvas-go/internal/geom"
)

func twoRectGroup(t *testing.T, opts ...Option) (*Group, *Rect, *Rect) {
	t.Helper()
	r1 := named("r1", 0, 0)
	r2 := named("r2", 20, 20)
	g, err := NewGroup([]Shape{r1, r2}, opts...)
	if err != nil {
		t.Fatalf("NewGroup failed: %v", err)
	}
	return g, r1, r2
}

func TestNewGroupFitsMembers(t *testing.T) {
	g, r1, r2 := twoRectGroup(t)

	want := geom.Rect{X: 0, Y: 0, Width: 30, Height: 30}
	if got := g.BoundingRect(); !rectsClose(got, want) {
		t.Errorf("group bounds = %+v, want %+v", got, want)
	}
	if !geom.Pt(r1.Left(), r1.Top()).EqualsWithin(geom.Pt(-15, -15), eps) {
		t.Errorf("r1 relative position = %v,%v, want -15,-15", r1.Left(), r1.Top())
	}
	if !geom.Pt(r2.Left(), r2.Top()).EqualsWithin(geom.Pt(5, 5), eps) {
		t.Errorf("r2 relative position = %v,%v, want 5,5", r2.Left(), r2.Top())
	}
	if r1.Owner() != g.Members() {
		t.Error("member owner should be the group's collection")
	}

	world := g.ChildMatrix().Multiply(r2.TransformMatrix()).Apply(geom.Pt(0, 0))
	if !world.EqualsWithin(geom.Pt(20, 20), eps) {
		t.Errorf("r2 world origin = %v, want 20,20", world)
	}
}

func TestGroupDestroyRestoresMembers(t *testing.T) {
	g, r1, r2 := twoRectGroup(t)
	out := g.Destroy()

	if len(out) != 2 || g.Size() != 0 {
		t.Fatalf("Destroy returned %d, group keeps %d", len(out), g.Size())
	}
	if !geom.Pt(r1.Left(), r1.Top()).EqualsWithin(geom.Pt(0, 0), eps) {
		t.Errorf("r1 = %v,%v, want 0,0", r1.Left(), r1.Top())
	}
	if !geom.Pt(r2.Left(), r2.Top()).EqualsWithin(geom.Pt(20, 20), eps) {
		t.Errorf("r2 = %v,%v, want 20,20", r2.Left(), r2.Top())
	}
	if r1.Owner() != nil {
		t.Error("destroyed members should have no owner")
	}
}

func TestRotatedGroupDestroy(t *testing.T) {
	g, r1, _ := twoRectGroup(t, WithAngle(90))

	if got := g.CenterPoint(); !got.EqualsWithin(geom.Pt(15, 15), eps) {
		t.Fatalf("group center = %v, want 15,15", got)
	}
	g.Destroy()

	if r1.Angle() != 90 {
		t.Errorf("r1 angle = %v, want 90", r1.Angle())
	}
	if got := r1.CenterPoint(); !got.EqualsWithin(geom.Pt(25, 5), 1e-9) {
		t.Errorf("r1 center = %v, want 25,5", got)
	}
	want := geom.Rect{X: 20, Y: 0, Width: 10, Height: 10}
	if got := r1.BoundingRect(); !rectsClose(got, want) {
		t.Errorf("r1 bounds = %+v, want %+v", got, want)
	}
}

func TestGroupAddRemoveWithUpdate(t *testing.T) {
	g, r1, r2 := twoRectGroup(t)
	r3 := named("r3", 40, 0)

	if err := g.AddWithUpdate(r3); err != nil {
		t.Fatalf("AddWithUpdate failed: %v", err)
	}
	if g.Width() != 50 || g.Height() != 30 {
		t.Errorf("group size = %vx%v, want 50x30", g.Width(), g.Height())
	}
	if !geom.Pt(r1.Left(), r1.Top()).EqualsWithin(geom.Pt(-25, -15), eps) {
		t.Errorf("r1 relative position = %v,%v, want -25,-15", r1.Left(), r1.Top())
	}
	if err := g.AddWithUpdate(r3); !errors.Is(err, ErrDuplicate) {
		t.Errorf("second AddWithUpdate error = %v, want ErrDuplicate", err)
	}

	removed, err := g.RemoveWithUpdate(r3)
	if err != nil {
		t.Fatalf("RemoveWithUpdate failed: %v", err)
	}
	if !geom.Pt(removed.Base().Left(), removed.Base().Top()).EqualsWithin(geom.Pt(40, 0), eps) {
		t.Errorf("removed at %v,%v, want 40,0", removed.Base().Left(), removed.Base().Top())
	}
	want := geom.Rect{X: 0, Y: 0, Width: 30, Height: 30}
	if got := g.BoundingRect(); !rectsClose(got, want) {
		t.Errorf("refitted bounds = %+v, want %+v", got, want)
	}
	if _, err := g.RemoveWithUpdate(r3); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveWithUpdate(stranger) error = %v, want ErrNotFound", err)
	}
	if !g.Contains(r2) || g.Complexity() != 2 {
		t.Errorf("contains r2=%v complexity=%d", g.Contains(r2), g.Complexity())
	}
}

func TestGroupForwardsMemberChanges(t *testing.T) {
	g, r1, _ := twoRectGroup(t)
	fired := 0
	g.On(EventModified, func(e Event) {
		if e.Target == Shape(g) {
			fired++
		}
	})
	r1.SetLeft(-14)
	if fired != 1 {
		t.Errorf("group modified fired %d times, want 1", fired)
	}
}

func TestNestedGroups(t *testing.T) {
	inner, _, _ := twoRectGroup(t)
	outer, err := NewGroup([]Shape{inner, named("far", 100, 100)})
	if err != nil {
		t.Fatalf("NewGroup failed: %v", err)
	}
	if got := outer.Complexity(); got != 3 {
		t.Errorf("Complexity() = %d, want 3", got)
	}
	want := geom.Rect{X: 0, Y: 0, Width: 110, Height: 110}
	if got := outer.BoundingRect(); !rectsClose(got, want) {
		t.Errorf("outer bounds = %+v, want %+v", got, want)
	}
}
