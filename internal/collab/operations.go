package collab

import (
	"errors"
	"fmt"
	"sync"

	"github.com/inamate/inamate/canvas-go/internal/canvas"
	"github.com/inamate/inamate/canvas-go/internal/engine"
	"github.com/inamate/inamate/canvas-go/internal/geom"
	"github.com/inamate/inamate/canvas-go/internal/object"
)

var (
	ErrUnknownOperation = errors.New("unknown operation type")
	ErrInvalidOperation = errors.New("invalid operation")
)

// maxOpLog bounds the in-memory operation history.
const maxOpLog = 1000

// DocumentState holds the authoritative canvas for a room. Every read and
// write of the canvas goes through its mutex.
type DocumentState struct {
	mu        sync.Mutex
	engine    *engine.Engine
	version   int
	serverSeq int64
	opLog     []Operation
	dirty     bool
}

// NewDocumentState wraps c, loaded from snapshot version.
func NewDocumentState(c *canvas.Canvas, version int) *DocumentState {
	return &DocumentState{
		engine:  engine.NewEngineFor(c),
		version: version,
	}
}

// Snapshot returns the canvas document and the sequence number it
// reflects.
func (ds *DocumentState) Snapshot() ([]byte, int, int64, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	data, err := ds.engine.Canvas().ToJSON()
	return data, ds.version, ds.serverSeq, err
}

// HoverTarget returns the id of the top-level shape under p, or "".
func (ds *DocumentState) HoverTarget(p geom.Point) string {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.engine.HitTest(p.X, p.Y)
}

// ApplyOperation applies op and returns its server sequence number. For
// object.add, op.ObjectID is set to the new shape's id.
func (ds *DocumentState) ApplyOperation(op *Operation) (int64, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if err := ds.applyOperationLocked(op); err != nil {
		return 0, err
	}

	ds.serverSeq++
	ds.dirty = true
	ds.opLog = append(ds.opLog, *op)
	if len(ds.opLog) > maxOpLog {
		ds.opLog = ds.opLog[len(ds.opLog)-maxOpLog:]
	}
	return ds.serverSeq, nil
}

// Save calls save with the canvas if it changed since the last save.
func (ds *DocumentState) Save(save func(*canvas.Canvas) error) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if !ds.dirty {
		return nil
	}
	if err := save(ds.engine.Canvas()); err != nil {
		return err
	}
	ds.dirty = false
	ds.version++
	return nil
}

func (ds *DocumentState) Dirty() bool {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.dirty
}

func (ds *DocumentState) applyOperationLocked(op *Operation) error {
	switch op.Type {
	case OpObjectAdd:
		return ds.applyAdd(op)
	case OpObjectRemove:
		return ds.applyRemove(op)
	case OpObjectUpdate:
		return ds.applyUpdate(op)
	case OpObjectReorder:
		return ds.applyReorder(op)
	case OpCanvasUpdate:
		return ds.applyCanvasUpdate(op)
	default:
		return fmt.Errorf("%q: %w", op.Type, ErrUnknownOperation)
	}
}

func (ds *DocumentState) find(id string) (object.Shape, error) {
	s, ok := ds.engine.Canvas().Find(id)
	if !ok {
		return nil, fmt.Errorf("object %s: %w", id, object.ErrNotFound)
	}
	return s, nil
}

func (ds *DocumentState) applyAdd(op *Operation) error {
	if op.Object == nil {
		return fmt.Errorf("object.add without object: %w", ErrInvalidOperation)
	}
	s, err := object.FromObject(op.Object)
	if err != nil {
		return err
	}
	c := ds.engine.Canvas()
	id := s.Base().ID()
	if _, exists := c.Find(id); exists {
		return fmt.Errorf("object %s: %w", id, object.ErrDuplicate)
	}

	if op.Index != nil {
		err = c.InsertAt(s, *op.Index, false)
	} else {
		err = c.Add(s)
	}
	if err != nil {
		return err
	}
	op.ObjectID = id
	return nil
}

func (ds *DocumentState) applyRemove(op *Operation) error {
	if _, err := ds.find(op.ObjectID); err != nil {
		return err
	}
	ds.engine.Remove(op.ObjectID)
	return nil
}

// applyUpdate rebuilds the shape with the patch applied and swaps it in at
// the same z-index.
func (ds *DocumentState) applyUpdate(op *Operation) error {
	if len(op.Patch) == 0 {
		return fmt.Errorf("object.update without patch: %w", ErrInvalidOperation)
	}
	s, err := ds.find(op.ObjectID)
	if err != nil {
		return err
	}
	updated, err := object.Patch(s, op.Patch)
	if err != nil {
		return err
	}
	c := ds.engine.Canvas()
	return c.InsertAt(updated, c.IndexOf(s), true)
}

func (ds *DocumentState) applyReorder(op *Operation) error {
	index := -1
	if op.Index != nil {
		index = *op.Index
	} else if op.Reorder == "moveTo" {
		return fmt.Errorf("moveTo without index: %w", ErrInvalidOperation)
	}
	return ds.engine.Reorder(op.ObjectID, op.Reorder, index, op.Intersecting)
}

func (ds *DocumentState) applyCanvasUpdate(op *Operation) error {
	c := ds.engine.Canvas()
	if op.Width == nil && op.Height == nil && op.Background == nil {
		return fmt.Errorf("canvas.update without changes: %w", ErrInvalidOperation)
	}
	w, h := c.Width(), c.Height()
	if op.Width != nil {
		w = *op.Width
	}
	if op.Height != nil {
		h = *op.Height
	}
	if err := c.SetDimensions(w, h); err != nil {
		return err
	}
	if op.Background != nil {
		c.SetBackground(*op.Background)
	}
	return nil
}
