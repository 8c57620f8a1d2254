package engine

import (
	"github.com/inamate/inamate/canvas-go/internal/geom"
	"github.com/inamate/inamate/canvas-go/internal/object"
)

// SceneGraph is the render-ready state of a canvas. It is rebuilt whenever
// the canvas changes and read by rendering, hit testing and selection.
type SceneGraph struct {
	Root      *SceneNode
	NodesById map[string]*SceneNode

	Width      float64
	Height     float64
	Background string
}

// SceneNode is a resolved shape. All matrices map into canvas space and
// opacity already includes the ancestors'.
type SceneNode struct {
	ID    string
	Type  object.Type // empty for the root
	Shape object.Shape

	// Space maps the coordinates the shape lives in (its owner's space)
	// into the canvas. World is Space * the shape's own matrix, so it maps
	// the outline into the canvas.
	Space geom.Matrix2D
	World geom.Matrix2D

	Opacity float64
	Style   object.Style

	Parent   *SceneNode
	Children []*SceneNode

	// Path is the outline in local box coordinates. Groups have none.
	Path []object.PathCommand

	// Bounds is the axis-aligned box of the shape in canvas space.
	Bounds geom.Rect
}

// NewSceneGraph creates an empty scene graph.
func NewSceneGraph() *SceneGraph {
	return &SceneGraph{
		Root:      &SceneNode{Space: geom.Identity(), World: geom.Identity(), Opacity: 1},
		NodesById: make(map[string]*SceneNode),
	}
}

// IsTopLevel reports whether the node is directly on the canvas.
func (n *SceneNode) IsTopLevel() bool {
	return n.Parent != nil && n.Parent.Parent == nil
}

// TopLevel walks up to the ancestor that sits directly on the canvas.
func (n *SceneNode) TopLevel() *SceneNode {
	for n != nil && !n.IsTopLevel() {
		n = n.Parent
	}
	return n
}

// ContainsPoint tests a canvas-space point against the shape's own
// containment rule.
func (n *SceneNode) ContainsPoint(p geom.Point) bool {
	if n.Shape == nil {
		return false
	}
	return n.Shape.ContainsPoint(n.Space.Invert().Apply(p))
}
