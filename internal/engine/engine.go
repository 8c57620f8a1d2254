package engine

import (
	"encoding/json"
	"fmt"

	"github.com/inamate/inamate/canvas-go/internal/canvas"
	"github.com/inamate/inamate/canvas-go/internal/document"
	"github.com/inamate/inamate/canvas-go/internal/geom"
	"github.com/inamate/inamate/canvas-go/internal/object"
)

// Engine owns a canvas and the scene graph compiled from it. It processes
// commands from the frontend and returns query results as JSON.
type Engine struct {
	canvas *canvas.Canvas

	// Retained scene graph
	sceneGraph *SceneGraph

	// Selection state (backend owns this)
	selection []string

	// Dirty flag - scene graph needs rebuild
	dirty bool
}

// NewEngine creates an engine over an empty canvas of the given size.
func NewEngine(width, height float64) *Engine {
	return NewEngineFor(canvas.New(width, height))
}

// NewEngineFor creates an engine over an existing canvas.
func NewEngineFor(c *canvas.Canvas) *Engine {
	e := &Engine{
		canvas:     c,
		sceneGraph: NewSceneGraph(),
		dirty:      true,
	}
	markDirty := func(object.Event) { e.dirty = true }
	for _, t := range []object.EventType{
		object.EventObjectAdded,
		object.EventObjectRemoved,
		object.EventObjectModified,
		object.EventObjectMoved,
	} {
		e.canvas.On(t, markDirty)
	}
	return e
}

// Canvas exposes the underlying canvas for direct edits. Changes made
// through it are picked up on the next query.
func (e *Engine) Canvas() *canvas.Canvas { return e.canvas }

// --- Commands (frontend → backend) ---

// LoadDocument loads a canvas document from JSON and clears the selection.
func (e *Engine) LoadDocument(jsonData string) error {
	if err := e.canvas.LoadFromJSON([]byte(jsonData)); err != nil {
		return err
	}
	e.selection = nil
	e.dirty = true
	return nil
}

// UpdateDocument reloads a document from JSON, keeping the ids of the
// current selection that still exist.
func (e *Engine) UpdateDocument(jsonData string) error {
	if err := e.canvas.LoadFromJSON([]byte(jsonData)); err != nil {
		return err
	}
	e.pruneSelection()
	e.dirty = true
	return nil
}

// LoadSampleDocument loads the built-in sample document.
func (e *Engine) LoadSampleDocument() {
	doc := document.NewSampleDocument(e.canvas.Width(), e.canvas.Height())
	if err := e.canvas.LoadDocument(doc); err != nil {
		panic(fmt.Sprintf("sample document: %v", err))
	}
	e.selection = nil
	e.dirty = true
}

// pruneSelection drops selected ids that are no longer on the canvas.
func (e *Engine) pruneSelection() {
	var kept []string
	for _, id := range e.selection {
		if _, ok := e.canvas.Find(id); ok {
			kept = append(kept, id)
		}
	}
	e.selection = kept
}

// SetSelection sets the selected object IDs.
func (e *Engine) SetSelection(ids []string) {
	e.selection = ids
}

// SelectInRect replaces the selection with the shapes a marquee from
// (x1, y1) to (x2, y2) picks up.
func (e *Engine) SelectInRect(x1, y1, x2, y2 float64) {
	e.selection = nil
	for _, s := range e.canvas.ObjectsInRect(geom.Pt(x1, y1), geom.Pt(x2, y2)) {
		e.selection = append(e.selection, s.Base().ID())
	}
}

// Reorder changes the z-order of a top-level shape. Op is one of
// "forward", "backward", "front", "back" or "moveTo" (which uses index).
func (e *Engine) Reorder(id, op string, index int, intersecting bool) error {
	s, ok := e.canvas.Find(id)
	if !ok {
		return fmt.Errorf("reorder %s: %w", id, object.ErrNotFound)
	}
	switch op {
	case "forward":
		return e.canvas.BringForward(s, intersecting)
	case "backward":
		return e.canvas.SendBackwards(s, intersecting)
	case "front":
		return e.canvas.BringToFront(s)
	case "back":
		return e.canvas.SendToBack(s)
	case "moveTo":
		return e.canvas.MoveTo(s, index)
	default:
		return fmt.Errorf("reorder op %q: %w", op, object.ErrMalformed)
	}
}

// Remove deletes the shapes with the given ids and drops them from the
// selection.
func (e *Engine) Remove(ids ...string) int {
	var shapes []object.Shape
	for _, id := range ids {
		if s, ok := e.canvas.Find(id); ok {
			shapes = append(shapes, s)
		}
	}
	removed := e.canvas.RemoveAll(shapes...)
	e.pruneSelection()
	return len(removed)
}

// --- Queries (frontend ← backend) ---

// Scene rebuilds the scene graph if the canvas changed and returns it.
func (e *Engine) Scene() *SceneGraph {
	sg := e.sceneGraph
	// Size and background changes fire no events.
	if sg.Width != e.canvas.Width() || sg.Height != e.canvas.Height() || sg.Background != e.canvas.Background() {
		e.dirty = true
	}
	if e.dirty {
		e.sceneGraph = BuildSceneGraph(e.canvas)
		e.dirty = false
	}
	return e.sceneGraph
}

// Render returns the draw commands for the canvas as JSON.
func (e *Engine) Render() string {
	result, _ := DrawCommandsToJSON(CompileDrawCommands(e.Scene()))
	return result
}

// HitTest returns the id of the topmost top-level shape at the point, or
// an empty string.
func (e *Engine) HitTest(x, y float64) string {
	hit := HitTest(e.Scene(), x, y)
	if hit == nil {
		return ""
	}
	return hit.TopLevel().ID
}

// HitTestDeep returns the innermost shape at the point together with its
// top-level ancestor as JSON, or "null".
func (e *Engine) HitTestDeep(x, y float64) string {
	hit := HitTest(e.Scene(), x, y)
	if hit == nil {
		return "null"
	}
	data, _ := json.Marshal(HitTestResult{
		ObjectID: hit.ID,
		TopLevel: hit.TopLevel().ID,
		X:        x,
		Y:        y,
	})
	return string(data)
}

// GetSelectionBounds returns the bounding box of the current selection as JSON.
func (e *Engine) GetSelectionBounds() string {
	if len(e.selection) == 0 {
		return RectToJSON(GetSelectionBounds(nil, nil))
	}
	return RectToJSON(GetSelectionBounds(e.Scene(), e.selection))
}

// GetCanvasInfo returns the canvas size, background and object count as JSON.
func (e *Engine) GetCanvasInfo() string {
	data, _ := json.Marshal(map[string]any{
		"width":      e.canvas.Width(),
		"height":     e.canvas.Height(),
		"background": e.canvas.Background(),
		"objects":    e.canvas.Size(),
		"complexity": e.canvas.Complexity(),
	})
	return string(data)
}

// GetDocument returns the full document as JSON (for debugging/sync).
func (e *Engine) GetDocument() string {
	data, err := e.canvas.ToJSON()
	if err != nil {
		return "{}"
	}
	return string(data)
}

// GetSelection returns the current selection as JSON.
func (e *Engine) GetSelection() string {
	sel := e.selection
	if sel == nil {
		sel = []string{}
	}
	data, _ := json.Marshal(sel)
	return string(data)
}
