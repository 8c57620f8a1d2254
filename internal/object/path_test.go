package object

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/inamate/inamate/canvas-go/internal/geom"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   []PathCommand
		want []PathCommand
	}{
		{
			name: "relative lines",
			in:   []PathCommand{cmd("M", 10, 10), cmd("l", 5, 0), cmd("h", 5), cmd("v", -3), cmd("z")},
			want: []PathCommand{cmd("M", 10, 10), cmd("L", 15, 10), cmd("L", 20, 10), cmd("L", 20, 7), cmd("Z")},
		},
		{
			name: "smooth cubic reflects control",
			in:   []PathCommand{cmd("M", 0, 0), cmd("C", 0, 10, 10, 10, 10, 0), cmd("S", 20, -10, 20, 0)},
			want: []PathCommand{cmd("M", 0, 0), cmd("C", 0, 10, 10, 10, 10, 0), cmd("C", 10, -10, 20, -10, 20, 0)},
		},
		{
			name: "smooth quadratic",
			in:   []PathCommand{cmd("M", 0, 0), cmd("Q", 5, 10, 10, 0), cmd("T", 20, 0)},
			want: []PathCommand{cmd("M", 0, 0), cmd("Q", 5, 10, 10, 0), cmd("Q", 15, -10, 20, 0)},
		},
		{
			name: "relative move after close",
			in:   []PathCommand{cmd("M", 5, 5), cmd("L", 10, 5), cmd("Z"), cmd("m", 1, 1)},
			want: []PathCommand{cmd("M", 5, 5), cmd("L", 10, 5), cmd("Z"), cmd("M", 6, 6)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePath(tt.in)
			if err != nil {
				t.Fatalf("NormalizePath failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got  %v\nwant %v", got, tt.want)
			}
		})
	}
}

func TestNormalizePathErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []PathCommand
	}{
		{"starts with line", []PathCommand{cmd("L", 1, 1)}},
		{"unknown op", []PathCommand{cmd("M", 0, 0), cmd("B", 1)}},
		{"multi-letter op", []PathCommand{cmd("M", 0, 0), {Op: "LL", Args: []float64{1, 1}}}},
		{"missing args", []PathCommand{cmd("M", 0, 0), cmd("C", 1, 2, 3)}},
	}
	for _, tt := range tests {
		if _, err := NormalizePath(tt.in); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: error = %v, want ErrMalformed", tt.name, err)
		}
	}
}

func TestPathBounds(t *testing.T) {
	tests := []struct {
		name string
		in   []PathCommand
		want geom.Rect
	}{
		{"lines", []PathCommand{cmd("M", 2, 3), cmd("L", 12, -4), cmd("L", 5, 9)}, geom.Rect{X: 2, Y: -4, Width: 10, Height: 13}},
		{"quadratic peak", []PathCommand{cmd("M", 0, 0), cmd("Q", 10, 20, 20, 0)}, geom.Rect{X: 0, Y: 0, Width: 20, Height: 10}},
		{"cubic bulge", []PathCommand{cmd("M", 0, 0), cmd("C", 0, 10, 10, 10, 10, 0)}, geom.Rect{X: 0, Y: 0, Width: 10, Height: 7.5}},
		{"half circle arc", []PathCommand{cmd("M", 0, 0), cmd("A", 10, 10, 0, 0, 1, 20, 0)}, geom.Rect{X: 0, Y: -10, Width: 20, Height: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			norm, err := NormalizePath(tt.in)
			if err != nil {
				t.Fatalf("NormalizePath failed: %v", err)
			}
			got := PathBounds(norm)
			if math.Abs(got.X-tt.want.X) > 1e-3 || math.Abs(got.Y-tt.want.Y) > 1e-3 ||
				math.Abs(got.Width-tt.want.Width) > 1e-3 || math.Abs(got.Height-tt.want.Height) > 1e-3 {
				t.Errorf("PathBounds() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPathShapeBox(t *testing.T) {
	p := mustPath(t, []PathCommand{cmd("M", 10, 20), cmd("L", 30, 20), cmd("L", 30, 60), cmd("Z")})
	if p.Left() != 10 || p.Top() != 20 || p.Width() != 20 || p.Height() != 40 {
		t.Errorf("box = %v,%v %vx%v", p.Left(), p.Top(), p.Width(), p.Height())
	}
	if got := p.PathOffset(); !got.EqualsWithin(geom.Pt(20, 40), eps) {
		t.Errorf("PathOffset() = %v", got)
	}

	p.SetPosition(0, 0)
	if !p.ContainsPoint(geom.Pt(19, 1)) || p.ContainsPoint(geom.Pt(1, 39)) {
		t.Error("moved path should test against its outline at the new position")
	}

	cmds := p.Commands()
	cmds[0].Args[0] = 99
	if p.Commands()[0].Args[0] != 10 {
		t.Error("Commands() should return a copy")
	}
}

func TestFlattenSplitsSubpaths(t *testing.T) {
	norm, err := NormalizePath([]PathCommand{
		cmd("M", 0, 0), cmd("L", 10, 0), cmd("L", 10, 10), cmd("Z"),
		cmd("M", 20, 20), cmd("Q", 25, 30, 30, 20),
	})
	if err != nil {
		t.Fatal(err)
	}
	polys := Flatten(norm, 8)
	if len(polys) != 2 {
		t.Fatalf("Flatten returned %d subpaths, want 2", len(polys))
	}
	if n := len(polys[1]); n != 9 {
		t.Errorf("curve subpath has %d points, want 9", n)
	}
}
