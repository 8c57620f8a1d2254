package canvas

import (
	"errors"
	"math"
	"testing"

	"github.com/inamate/inamate/canvas-go/internal/document"
	"github.com/inamate/inamate/canvas-go/internal/geom"
	"github.com/inamate/inamate/canvas-go/internal/object"
)

func rect(id string, left, top, w, h float64) *object.Rect {
	return object.NewRect(w, h, object.WithID(id), object.WithPosition(left, top))
}

func mustAdd(t *testing.T, c *Canvas, shapes ...object.Shape) {
	t.Helper()
	if err := c.Add(shapes...); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
}

func TestCenterObject(t *testing.T) {
	c := New(200, 100)
	r := rect("r", 0, 0, 20, 10)
	mustAdd(t, c, r)

	c.CenterObjectH(r)
	if got := r.CenterPoint(); !got.EqualsWithin(geom.Pt(100, 5), 1e-9) {
		t.Errorf("after CenterObjectH center = %v, want 100,5", got)
	}
	c.CenterObjectV(r)
	if got := r.CenterPoint(); !got.EqualsWithin(geom.Pt(100, 50), 1e-9) {
		t.Errorf("after CenterObjectV center = %v, want 100,50", got)
	}

	r.SetPosition(0, 0)
	r.SetAngle(45)
	c.CenterObject(r)
	if got := r.CenterPoint(); !got.EqualsWithin(c.Center(), 1e-9) {
		t.Errorf("CenterObject center = %v, want %v", got, c.Center())
	}
}

func TestFindTarget(t *testing.T) {
	c := New(100, 100)
	bottom := rect("bottom", 0, 0, 50, 50)
	top := rect("top", 25, 25, 50, 50)
	hidden := rect("hidden", 0, 0, 100, 100)
	hidden.SetVisible(false)
	mustAdd(t, c, bottom, top, hidden)

	tests := []struct {
		name string
		p    geom.Point
		want string
	}{
		{"overlap picks topmost", geom.Pt(30, 30), "top"},
		{"only bottom", geom.Pt(5, 5), "bottom"},
		{"shared edge", geom.Pt(50, 25), "top"},
		{"miss", geom.Pt(90, 5), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := c.FindTarget(tt.p)
			got := ""
			if ok {
				got = s.Base().ID()
			}
			if got != tt.want {
				t.Errorf("FindTarget(%v) = %q, want %q", tt.p, got, tt.want)
			}
		})
	}

	if got := c.TargetsAt(geom.Pt(30, 30)); len(got) != 2 || got[0] != object.Shape(top) {
		t.Errorf("TargetsAt = %v", got)
	}

	in := top.Interaction()
	in.Evented = false
	top.SetInteraction(in)
	if s, _ := c.FindTarget(geom.Pt(30, 30)); s != object.Shape(bottom) {
		t.Errorf("non-evented shape should be skipped, got %v", s)
	}
}

func TestObjectsInRect(t *testing.T) {
	c := New(200, 200)
	inside := rect("inside", 10, 10, 10, 10)
	crossing := rect("crossing", 45, 10, 20, 10)
	around := rect("around", 0, 100, 100, 100)
	far := rect("far", 150, 150, 10, 10)
	mustAdd(t, c, inside, crossing, around, far)

	got := c.ObjectsInRect(geom.Pt(50, 0), geom.Pt(0, 50))
	if len(got) != 2 || got[0] != object.Shape(inside) || got[1] != object.Shape(crossing) {
		t.Errorf("ObjectsInRect = %v", got)
	}

	// A marquee drawn entirely inside a shape still picks it.
	got = c.ObjectsInRect(geom.Pt(40, 140), geom.Pt(60, 160))
	if len(got) != 1 || got[0] != object.Shape(around) {
		t.Errorf("inner marquee = %v", got)
	}
}

func TestSelectionBounds(t *testing.T) {
	c := New(200, 200)
	mustAdd(t, c, rect("a", 0, 0, 10, 10), rect("b", 20, 30, 10, 10))

	r, ok := c.SelectionBounds("a", "missing", "b")
	want := geom.Rect{X: 0, Y: 0, Width: 30, Height: 40}
	if !ok || r != want {
		t.Errorf("SelectionBounds = %+v, %v, want %+v", r, ok, want)
	}
	if _, ok := c.SelectionBounds("missing"); ok {
		t.Error("SelectionBounds of unknown ids should report false")
	}
}

func TestStraightenObject(t *testing.T) {
	c := New(100, 100)
	r := object.NewRect(10, 10, object.WithID("r"), object.WithAngle(80))
	mustAdd(t, c, r)
	if err := c.StraightenObject("r"); err != nil {
		t.Fatalf("StraightenObject failed: %v", err)
	}
	if r.Angle() != 90 {
		t.Errorf("angle = %v, want 90", r.Angle())
	}
	if err := c.StraightenObject("nope"); !errors.Is(err, object.ErrNotFound) {
		t.Errorf("StraightenObject(nope) error = %v, want ErrNotFound", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	c := New(640, 480)
	c.SetBackground("#101010")
	g, err := object.NewGroup([]object.Shape{rect("g1", 0, 0, 10, 10), object.NewCircle(5, object.WithID("g2"))}, object.WithID("g"))
	if err != nil {
		t.Fatal(err)
	}
	mustAdd(t, c, rect("a", 5, 5, 30, 20), object.NewLine(0, 0, 50, 50, object.WithID("l")), g)

	data, err := c.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	back := New(1, 1)
	if err := back.LoadFromJSON(data); err != nil {
		t.Fatalf("LoadFromJSON failed: %v", err)
	}
	if back.Width() != 640 || back.Height() != 480 || back.Background() != "#101010" {
		t.Errorf("header = %vx%v %s", back.Width(), back.Height(), back.Background())
	}
	if back.Size() != 3 || back.Complexity() != c.Complexity() {
		t.Fatalf("size=%d complexity=%d", back.Size(), back.Complexity())
	}
	for _, id := range []string{"a", "l", "g"} {
		orig, _ := c.Find(id)
		got, ok := back.Find(id)
		if !ok {
			t.Errorf("missing %s", id)
			continue
		}
		a, b := orig.Base().BoundingRect(), got.Base().BoundingRect()
		if math.Abs(a.X-b.X) > 1e-9 || math.Abs(a.Width-b.Width) > 1e-9 {
			t.Errorf("%s bounds = %+v, want %+v", id, b, a)
		}
	}
}

func TestLoadIsAtomic(t *testing.T) {
	c := New(100, 100)
	mustAdd(t, c, rect("keep", 0, 0, 10, 10))

	doc := document.NewEmptyDocument(50, 50)
	doc.Objects = []object.Record{
		rect("x", 0, 0, 1, 1).ToObject(object.FieldID),
		{"type": "polygon"},
	}
	if err := c.LoadDocument(doc); !errors.Is(err, object.ErrMalformed) {
		t.Fatalf("LoadDocument error = %v, want ErrMalformed", err)
	}
	if _, ok := c.Find("keep"); !ok || c.Width() != 100 {
		t.Error("failed load should leave the canvas unchanged")
	}

	doc.Objects = []object.Record{
		rect("dup", 0, 0, 1, 1).ToObject(object.FieldID),
		rect("dup", 5, 5, 1, 1).ToObject(object.FieldID),
	}
	if err := c.LoadDocument(doc); !errors.Is(err, object.ErrDuplicate) {
		t.Errorf("duplicate ids error = %v, want ErrDuplicate", err)
	}
}

func TestClear(t *testing.T) {
	c := New(100, 100)
	c.SetBackground("#000")
	r := rect("r", 0, 0, 10, 10)
	mustAdd(t, c, r)

	out := c.Clear()
	if len(out) != 1 || !c.IsEmpty() || r.Owner() != nil {
		t.Errorf("Clear returned %d, empty=%v", len(out), c.IsEmpty())
	}
	if c.Background() != "#ffffff" {
		t.Errorf("background = %s after Clear", c.Background())
	}
}
