package engine

import (
	"github.com/inamate/inamate/canvas-go/internal/canvas"
	"github.com/inamate/inamate/canvas-go/internal/geom"
	"github.com/inamate/inamate/canvas-go/internal/object"
)

// BuildSceneGraph resolves every visible shape on the canvas into a node.
// Hidden shapes and their members are left out.
func BuildSceneGraph(c *canvas.Canvas) *SceneGraph {
	sg := NewSceneGraph()
	sg.Width, sg.Height = c.Width(), c.Height()
	sg.Background = c.Background()

	for _, s := range c.Objects() {
		if child := buildNode(s, sg.Root, geom.Identity(), 1, sg); child != nil {
			sg.Root.Children = append(sg.Root.Children, child)
		}
	}
	sg.Root.Bounds = geom.Rect{Width: sg.Width, Height: sg.Height}
	return sg
}

// buildNode resolves s, which lives in the coordinate space that space maps
// into the canvas.
func buildNode(s object.Shape, parent *SceneNode, space geom.Matrix2D, parentOpacity float64, sg *SceneGraph) *SceneNode {
	o := s.Base()
	if !o.Visible() {
		return nil
	}

	style := o.Style()
	world := space.Multiply(o.TransformMatrix())
	node := &SceneNode{
		ID:      o.ID(),
		Type:    o.Type(),
		Shape:   s,
		Space:   space,
		World:   world,
		Opacity: parentOpacity * style.Opacity,
		Style:   style,
		Parent:  parent,
	}

	box := geom.Rect{Width: o.Width(), Height: o.Height()}
	corners := box.Corners()
	for i, p := range corners {
		corners[i] = world.Apply(p)
	}
	node.Bounds = geom.BoundsOf(corners)

	sg.NodesById[node.ID] = node

	g, ok := s.(*object.Group)
	if !ok {
		if t, isText := s.(*object.Text); isText {
			node.Path = t.Glyphs()
		} else {
			node.Path = s.Outline()
		}
		return node
	}

	childSpace := space.Multiply(g.ChildMatrix())
	for _, member := range g.Objects() {
		if child := buildNode(member, node, childSpace, node.Opacity, sg); child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node
}
