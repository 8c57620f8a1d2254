package engine

import (
	"encoding/json"

	"github.com/inamate/inamate/canvas-go/internal/geom"
	"github.com/inamate/inamate/canvas-go/internal/object"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string               `json:"op"`                    // "background", "path" or "image"
	ObjectID    string               `json:"objectId,omitempty"`    // For hit correlation
	Transform   []float64            `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Path        []object.PathCommand `json:"path,omitempty"`        // Local box coordinates
	Fill        string               `json:"fill,omitempty"`
	Gradient    *object.Gradient     `json:"gradient,omitempty"` // Takes precedence over Fill
	Stroke      string               `json:"stroke,omitempty"`
	StrokeWidth float64              `json:"strokeWidth,omitempty"`
	Dash        []float64            `json:"dash,omitempty"`
	LineCap     string               `json:"lineCap,omitempty"`
	LineJoin    string               `json:"lineJoin,omitempty"`
	MiterLimit  float64              `json:"miterLimit,omitempty"`
	FillRule    string               `json:"fillRule,omitempty"`
	Opacity     float64              `json:"opacity,omitempty"` // Global alpha
	ImageSrc    string               `json:"imageSrc,omitempty"`
	ImageWidth  float64              `json:"imageWidth,omitempty"`
	ImageHeight float64              `json:"imageHeight,omitempty"`
}

// CompileDrawCommands generates a draw command buffer from a scene graph.
// Commands are in painter's order (back to front), starting with the
// background.
func CompileDrawCommands(sg *SceneGraph) []DrawCommand {
	if sg == nil || sg.Root == nil {
		return nil
	}

	commands := []DrawCommand{{
		Op:          "background",
		Fill:        sg.Background,
		Opacity:     1,
		ImageWidth:  sg.Width,
		ImageHeight: sg.Height,
	}}
	for _, child := range sg.Root.Children {
		compileNode(child, &commands)
	}
	return commands
}

func compileNode(node *SceneNode, commands *[]DrawCommand) {
	if node.Opacity <= 0 {
		return
	}

	switch {
	case node.Type == object.TypeImage:
		img := node.Shape.(*object.Image)
		*commands = append(*commands, DrawCommand{
			Op:          "image",
			ObjectID:    node.ID,
			Transform:   node.World.ToSlice(),
			Opacity:     node.Opacity,
			ImageSrc:    img.Src(),
			ImageWidth:  img.Width(),
			ImageHeight: img.Height(),
		})
	case len(node.Path) > 0:
		st := node.Style
		cmd := DrawCommand{
			Op:        "path",
			ObjectID:  node.ID,
			Transform: node.World.ToSlice(),
			Path:      node.Path,
			Fill:      st.Fill,
			Gradient:  st.FillGradient,
			Opacity:   node.Opacity,
			FillRule:  st.FillRule,
		}
		if st.Stroke != "" && st.StrokeWidth > 0 {
			cmd.Stroke = st.Stroke
			cmd.StrokeWidth = st.StrokeWidth
			cmd.Dash = st.StrokeDashArray
			cmd.LineCap = st.StrokeLineCap
			cmd.LineJoin = st.StrokeLineJoin
			cmd.MiterLimit = st.StrokeMiterLimit
		}
		*commands = append(*commands, cmd)
	}

	for _, child := range node.Children {
		compileNode(child, commands)
	}
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// HitTestResult contains information about a hit test.
type HitTestResult struct {
	ObjectID string  `json:"objectId"`
	TopLevel string  `json:"topLevelId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// HitTest returns the deepest, frontmost evented node containing the
// point, or nil. Group members are tested before their group.
func HitTest(sg *SceneGraph, x, y float64) *SceneNode {
	if sg == nil || sg.Root == nil {
		return nil
	}
	p := geom.Pt(x, y)
	for i := len(sg.Root.Children) - 1; i >= 0; i-- {
		if hit := hitTestNode(sg.Root.Children[i], p); hit != nil {
			return hit
		}
	}
	return nil
}

func hitTestNode(node *SceneNode, p geom.Point) *SceneNode {
	if !node.Shape.Base().Interaction().Evented {
		return nil
	}

	if len(node.Children) > 0 {
		// Cheap reject before walking the members.
		if !node.Bounds.Contains(p) {
			return nil
		}
		for i := len(node.Children) - 1; i >= 0; i-- {
			if hit := hitTestNode(node.Children[i], p); hit != nil {
				return hit
			}
		}
	}

	if node.ContainsPoint(p) {
		return node
	}
	return nil
}

// GetSelectionBounds returns the combined bounding box of the given object
// IDs. Unknown ids are skipped.
func GetSelectionBounds(sg *SceneGraph, objectIDs []string) geom.Rect {
	if sg == nil || len(objectIDs) == 0 {
		return geom.Rect{}
	}

	var result geom.Rect
	first := true
	for _, id := range objectIDs {
		node, ok := sg.NodesById[id]
		if !ok {
			continue
		}
		if first {
			result = node.Bounds
			first = false
		} else {
			result = geom.Extend(result, node.Bounds)
		}
	}
	return result
}

// RectToJSON serializes a Rect to JSON.
func RectToJSON(r geom.Rect) string {
	data, _ := json.Marshal(map[string]float64{
		"x":      r.X,
		"y":      r.Y,
		"width":  r.Width,
		"height": r.Height,
	})
	return string(data)
}
