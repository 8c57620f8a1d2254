package engine

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/inamate/inamate/canvas-go/internal/canvas"
	"github.com/inamate/inamate/canvas-go/internal/geom"
	"github.com/inamate/inamate/canvas-go/internal/object"
)

const eps = 1e-9

func rect(id string, left, top float64) *object.Rect {
	return object.NewRect(10, 10, object.WithID(id), object.WithPosition(left, top))
}

// testCanvas holds a rect at the origin, a group of two rects spanning
// (40,40)-(70,70), a rect at (100,100) and a hidden rect.
func testCanvas(t *testing.T) (*canvas.Canvas, *object.Group) {
	t.Helper()
	c := canvas.New(200, 200)
	g, err := object.NewGroup([]object.Shape{rect("r1", 40, 40), rect("r2", 60, 60)}, object.WithID("g"))
	if err != nil {
		t.Fatalf("NewGroup failed: %v", err)
	}
	hidden := rect("hidden", 0, 0)
	hidden.SetVisible(false)
	if err := c.Add(rect("a", 0, 0), g, rect("top", 100, 100), hidden); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return c, g
}

func rectsClose(a, b geom.Rect) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps &&
		math.Abs(a.Width-b.Width) < eps && math.Abs(a.Height-b.Height) < eps
}

func TestBuildSceneGraph(t *testing.T) {
	c, _ := testCanvas(t)
	sg := BuildSceneGraph(c)

	if len(sg.Root.Children) != 3 {
		t.Fatalf("top-level nodes = %d, want 3", len(sg.Root.Children))
	}
	if _, ok := sg.NodesById["hidden"]; ok {
		t.Error("hidden shapes should not be in the scene graph")
	}

	tests := []struct {
		id   string
		want geom.Rect
	}{
		{"a", geom.Rect{X: 0, Y: 0, Width: 10, Height: 10}},
		{"g", geom.Rect{X: 40, Y: 40, Width: 30, Height: 30}},
		{"r1", geom.Rect{X: 40, Y: 40, Width: 10, Height: 10}},
		{"r2", geom.Rect{X: 60, Y: 60, Width: 10, Height: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			node, ok := sg.NodesById[tt.id]
			if !ok {
				t.Fatalf("node %s missing", tt.id)
			}
			if !rectsClose(node.Bounds, tt.want) {
				t.Errorf("bounds = %+v, want %+v", node.Bounds, tt.want)
			}
		})
	}

	r2 := sg.NodesById["r2"]
	if r2.Parent != sg.NodesById["g"] || r2.TopLevel().ID != "g" || r2.IsTopLevel() {
		t.Error("r2 should hang under the group")
	}
}

func TestOpacityIsInherited(t *testing.T) {
	c, g := testCanvas(t)
	st := g.Style()
	st.Opacity = 0.5
	g.SetStyle(st)

	sg := BuildSceneGraph(c)
	if got := sg.NodesById["r1"].Opacity; got != 0.5 {
		t.Errorf("member opacity = %v, want 0.5", got)
	}
}

func TestCompileDrawCommands(t *testing.T) {
	c, _ := testCanvas(t)
	cmds := CompileDrawCommands(BuildSceneGraph(c))

	want := []string{"", "a", "r1", "r2", "top"}
	if len(cmds) != len(want) {
		t.Fatalf("commands = %d, want %d", len(cmds), len(want))
	}
	if cmds[0].Op != "background" || cmds[0].Fill != "#ffffff" {
		t.Errorf("first command = %+v", cmds[0])
	}
	for i, id := range want {
		if cmds[i].ObjectID != id {
			t.Errorf("command %d id = %q, want %q", i, cmds[i].ObjectID, id)
		}
		if i > 0 && (cmds[i].Op != "path" || len(cmds[i].Transform) != 6) {
			t.Errorf("command %d = %+v", i, cmds[i])
		}
	}
}

func TestHitTest(t *testing.T) {
	c, g := testCanvas(t)

	tests := []struct {
		name      string
		x, y      float64
		wantDeep  string
		wantGroup string
	}{
		{"plain rect", 5, 5, "a", "a"},
		{"first member", 45, 45, "r1", "g"},
		{"second member", 65, 65, "r2", "g"},
		{"group gap", 55, 45, "g", "g"},
		{"miss", 150, 20, "", ""},
	}
	sg := BuildSceneGraph(c)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := HitTest(sg, tt.x, tt.y)
			deep, top := "", ""
			if hit != nil {
				deep, top = hit.ID, hit.TopLevel().ID
			}
			if deep != tt.wantDeep || top != tt.wantGroup {
				t.Errorf("HitTest(%v,%v) = %q/%q, want %q/%q", tt.x, tt.y, deep, top, tt.wantDeep, tt.wantGroup)
			}
		})
	}

	// Rotating the group a quarter turn about its center carries r1 from
	// the top-left to the top-right cell.
	g.SetAngle(90)
	sg = BuildSceneGraph(c)
	if hit := HitTest(sg, 65, 45); hit == nil || hit.ID != "r1" {
		t.Errorf("rotated HitTest = %v, want r1", hit)
	}
	if got, want := sg.NodesById["r1"].Bounds, (geom.Rect{X: 60, Y: 40, Width: 10, Height: 10}); !rectsClose(got, want) {
		t.Errorf("rotated r1 bounds = %+v, want %+v", got, want)
	}
}

func TestHitTestSkipsNonEvented(t *testing.T) {
	c, _ := testCanvas(t)
	top, _ := c.Find("a")
	in := top.Base().Interaction()
	in.Evented = false
	top.Base().SetInteraction(in)

	if hit := HitTest(BuildSceneGraph(c), 5, 5); hit != nil {
		t.Errorf("HitTest = %s, want nothing", hit.ID)
	}
}

func TestGetSelectionBounds(t *testing.T) {
	c, _ := testCanvas(t)
	sg := BuildSceneGraph(c)

	got := GetSelectionBounds(sg, []string{"a", "missing", "r2"})
	if want := (geom.Rect{X: 0, Y: 0, Width: 70, Height: 70}); !rectsClose(got, want) {
		t.Errorf("GetSelectionBounds = %+v, want %+v", got, want)
	}
	if got := GetSelectionBounds(sg, nil); got != (geom.Rect{}) {
		t.Errorf("empty selection = %+v", got)
	}
}

func loadedEngine(t *testing.T) *Engine {
	t.Helper()
	c, _ := testCanvas(t)
	data, err := c.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	e := NewEngine(1, 1)
	if err := e.LoadDocument(string(data)); err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}
	return e
}

func TestEngineRenderSample(t *testing.T) {
	e := NewEngine(1280, 720)
	e.LoadSampleDocument()

	var cmds []DrawCommand
	if err := json.Unmarshal([]byte(e.Render()), &cmds); err != nil {
		t.Fatalf("Render output is not JSON: %v", err)
	}
	// Background, five primitives, the two group members and the title.
	if len(cmds) != 9 {
		t.Fatalf("commands = %d, want 9", len(cmds))
	}
	for _, cmd := range cmds[1:] {
		if cmd.ObjectID == "" || len(cmd.Path) == 0 {
			t.Errorf("command %+v lacks an id or a path", cmd)
		}
	}
}

func TestEngineTracksCanvasEdits(t *testing.T) {
	e := loadedEngine(t)
	if got := e.HitTest(5, 5); got != "a" {
		t.Fatalf("HitTest = %q, want a", got)
	}

	a, _ := e.Canvas().Find("a")
	a.Base().SetPosition(150, 150)
	if got := e.HitTest(5, 5); got != "" {
		t.Errorf("HitTest after move = %q, want empty", got)
	}
	if got := e.HitTest(155, 155); got != "a" {
		t.Errorf("HitTest at new position = %q, want a", got)
	}

	e.Canvas().SetBackground("#000000")
	if e.Scene().Background != "#000000" {
		t.Error("background change should rebuild the scene")
	}
}

func TestEngineHitTestDeep(t *testing.T) {
	e := loadedEngine(t)

	var res HitTestResult
	if err := json.Unmarshal([]byte(e.HitTestDeep(45, 45)), &res); err != nil {
		t.Fatal(err)
	}
	if res.ObjectID != "r1" || res.TopLevel != "g" {
		t.Errorf("HitTestDeep = %+v", res)
	}
	if got := e.HitTestDeep(150, 20); got != "null" {
		t.Errorf("HitTestDeep miss = %s", got)
	}
}

func TestEngineReorder(t *testing.T) {
	tests := []struct {
		op    string
		id    string
		index int
		want  []string
	}{
		{"front", "a", 0, []string{"g", "top", "hidden", "a"}},
		{"back", "hidden", 0, []string{"hidden", "a", "g", "top"}},
		{"forward", "a", 0, []string{"g", "a", "top", "hidden"}},
		{"backward", "top", 0, []string{"a", "top", "g", "hidden"}},
		{"moveTo", "g", 3, []string{"a", "top", "hidden", "g"}},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			e := loadedEngine(t)
			if err := e.Reorder(tt.id, tt.op, tt.index, false); err != nil {
				t.Fatalf("Reorder failed: %v", err)
			}
			var got []string
			for _, s := range e.Canvas().Objects() {
				got = append(got, s.Base().ID())
			}
			if len(got) != len(tt.want) {
				t.Fatalf("order = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("order = %v, want %v", got, tt.want)
				}
			}
		})
	}

	e := loadedEngine(t)
	if err := e.Reorder("nope", "front", 0, false); !errors.Is(err, object.ErrNotFound) {
		t.Errorf("unknown id error = %v", err)
	}
	if err := e.Reorder("a", "sideways", 0, false); !errors.Is(err, object.ErrMalformed) {
		t.Errorf("unknown op error = %v", err)
	}
}

func TestEngineSelection(t *testing.T) {
	e := loadedEngine(t)
	if got := e.GetSelection(); got != "[]" {
		t.Errorf("initial selection = %s", got)
	}

	e.SetSelection([]string{"a", "top"})
	var r geom.Rect
	if err := json.Unmarshal([]byte(e.GetSelectionBounds()), &struct {
		X      *float64 `json:"x"`
		Y      *float64 `json:"y"`
		Width  *float64 `json:"width"`
		Height *float64 `json:"height"`
	}{&r.X, &r.Y, &r.Width, &r.Height}); err != nil {
		t.Fatal(err)
	}
	if want := (geom.Rect{X: 0, Y: 0, Width: 110, Height: 110}); !rectsClose(r, want) {
		t.Errorf("selection bounds = %+v, want %+v", r, want)
	}

	if n := e.Remove("a", "missing"); n != 1 {
		t.Errorf("Remove = %d, want 1", n)
	}
	if got := e.GetSelection(); got != `["top"]` {
		t.Errorf("selection after remove = %s", got)
	}

	e.SelectInRect(35, 35, 75, 75)
	if got := e.GetSelection(); got != `["g"]` {
		t.Errorf("marquee selection = %s", got)
	}
}

func TestCompileTextAndGradient(t *testing.T) {
	c := canvas.New(200, 100)
	g := object.NewLinearGradient(0, 0, 10, 0).AddColorStop(0, "red").AddColorStop(1, "blue")
	label := object.NewText("Hi", object.WithID("label"), object.WithPosition(20, 20))
	box := object.NewRect(10, 10, object.WithID("box"), object.WithGradient(g))
	if err := c.Add(label, box, object.NewText("", object.WithID("blank"))); err != nil {
		t.Fatal(err)
	}

	sg := BuildSceneGraph(c)
	cmds := CompileDrawCommands(sg)
	if len(cmds) != 3 {
		t.Fatalf("commands = %d, want background, label and box", len(cmds))
	}
	text := cmds[1]
	if text.ObjectID != "label" || len(text.Path) <= 5 || text.Gradient != nil {
		t.Errorf("text command = %s with %d path commands", text.ObjectID, len(text.Path))
	}
	if cmds[2].Gradient == nil || len(cmds[2].Gradient.ColorStops) != 2 {
		t.Errorf("box gradient = %+v", cmds[2].Gradient)
	}

	// Text is hit by its box, not only where the glyphs are inked.
	center := label.CenterPoint()
	if hit := HitTest(sg, center.X, center.Y); hit == nil || hit.ID != "label" {
		t.Errorf("HitTest at text center = %v", hit)
	}
}
