package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inamate/inamate/canvas-go/internal/canvas"
	"github.com/inamate/inamate/canvas-go/internal/geom"
)

const sceneDoc = `{"version":1,"width":100,"height":80,"background":"#ffffff","objects":[
	{"type":"rect","id":"a","left":0,"top":0,"width":20,"height":20,"fill":"#f00"},
	{"type":"rect","id":"b","left":10,"top":10,"width":20,"height":20,"fill":"#00f"},
	{"type":"rect","id":"c","left":50,"top":50,"width":5,"height":5,"fill":"#0f0"},
	{"type":"rect","id":"d","left":2,"top":2,"width":4,"height":4,"fill":"#000"}
]}`

func writeScene(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(sceneDoc), 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	return path
}

// run executes the root command with fresh flag values.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	outputJSON, hitAll, writeBack, reorderIntersecting = false, false, false, false
	renderFormat, renderOutput = "", ""
	renderScale = 1
	reorderIndex = 0
	allowHosts = nil

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func order(t *testing.T, data []byte) string {
	t.Helper()
	c := canvas.New(0, 0)
	if err := c.LoadFromJSON(data); err != nil {
		t.Fatalf("reload: %v", err)
	}
	var ids []string
	for _, s := range c.Objects() {
		ids = append(ids, s.Base().ID())
	}
	return strings.Join(ids, ",")
}

func TestQueries(t *testing.T) {
	path := writeScene(t)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"hit top", []string{"hit", path, "15", "15"}, "b\n", false},
		{"hit all", []string{"hit", path, "15", "15", "--all"}, "b\na\n", false},
		{"hit miss", []string{"hit", path, "90", "70"}, "", true},
		{"hit bad x", []string{"hit", path, "left", "1"}, "", true},
		{"intersecting", []string{"intersect", path, "a", "b"}, "intersecting\n", false},
		{"inside", []string{"intersect", path, "d", "a"}, "inside\n", false},
		{"contains", []string{"intersect", path, "a", "d"}, "contains\n", false},
		{"disjoint", []string{"intersect", path, "a", "c"}, "disjoint\n", false},
		{"intersect missing", []string{"intersect", path, "a", "zz"}, "", true},
		{"bounds missing", []string{"bounds", path, "zz"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	path := writeScene(t)

	tests := []struct {
		name string
		ids  []string
		want geom.Rect
	}{
		{"pair", []string{"a", "b"}, geom.Rect{X: 0, Y: 0, Width: 30, Height: 30}},
		{"single", []string{"c"}, geom.Rect{X: 50, Y: 50, Width: 5, Height: 5}},
		{"all", nil, geom.Rect{X: 0, Y: 0, Width: 55, Height: 55}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"bounds", path}, tt.ids...)...)
			if err != nil {
				t.Fatalf("bounds failed: %v", err)
			}
			var got geom.Rect
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("decode %q: %v", out, err)
			}
			if got != tt.want {
				t.Errorf("bounds = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	path := writeScene(t)

	out, err := run(t, "info", path, "--json")
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	var info CanvasInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Width != 100 || info.Height != 80 || len(info.Objects) != 4 {
		t.Fatalf("info = %+v", info)
	}
	if o := info.Objects[1]; o.ID != "b" || o.Type != "rect" || o.Index != 1 {
		t.Errorf("objects[1] = %+v", o)
	}

	out, err = run(t, "info", path)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if !strings.HasPrefix(out, "Canvas 100x80") {
		t.Errorf("text output = %q", out)
	}
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"front", []string{"a", "front"}, "b,c,d,a", false},
		{"back", []string{"d", "back"}, "d,a,b,c", false},
		{"forward", []string{"a", "forward"}, "b,a,c,d", false},
		{"backward", []string{"c", "backward"}, "a,c,b,d", false},
		{"move", []string{"d", "moveTo", "--index", "1"}, "a,d,b,c", false},
		{"unknown op", []string{"a", "sideways"}, "", true},
		{"missing", []string{"zz", "front"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScene(t)
			out, err := run(t, append([]string{"reorder", path}, tt.args...)...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := order(t, []byte(out)); got != tt.want {
				t.Errorf("order = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWriteBack(t *testing.T) {
	path := writeScene(t)

	if _, err := run(t, "reorder", path, "a", "front", "-w"); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	if _, err := run(t, "remove", path, "c", "zz", "-w"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := order(t, data); got != "b,d,a" {
		t.Errorf("order = %s, want b,d,a", got)
	}
}

func TestRender(t *testing.T) {
	path := writeScene(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		output  string
		args    []string
		magic   string
		wantErr bool
	}{
		{"png from extension", "out.png", nil, "\x89PNG", false},
		{"webp flag", "out.img", []string{"-f", "webp"}, "RIFF", false},
		{"pdf scaled", "out.pdf", []string{"-s", "3"}, "%PDF", false},
		{"unknown format", "out.gif", []string{"-f", "gif"}, "", true},
		{"bad scale", "zero.png", []string{"-s", "0"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(dir, tt.output)
			args := append([]string{"render", path, "-o", output}, tt.args...)
			_, err := run(t, args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			data, err := os.ReadFile(output)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(data, []byte(tt.magic)) {
				t.Errorf("output starts with %q, want %q", data[:min(8, len(data))], tt.magic)
			}
		})
	}
}
