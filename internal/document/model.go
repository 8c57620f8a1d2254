package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/inamate/canvas-go/internal/object"
)

// Version is the layout version written by this package.
const Version = 1

var ErrUnsupportedVersion = errors.New("unsupported document version")

// Document is the persisted form of a canvas: its size, background and
// the records of its top-level shapes in paint order.
type Document struct {
	Version    int             `json:"version"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Background string          `json:"background"`
	Objects    []object.Record `json:"objects"`
}

// NewEmptyDocument creates an empty document for a new board.
func NewEmptyDocument(width, height float64) *Document {
	return &Document{
		Version:    Version,
		Width:      width,
		Height:     height,
		Background: "#ffffff",
		Objects:    []object.Record{},
	}
}

// Parse decodes a document. Records are not validated here; loading them
// into a canvas does that.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %v: %w", err, object.ErrMalformed)
	}
	if doc.Version == 0 {
		doc.Version = Version
	}
	if doc.Version > Version {
		return nil, fmt.Errorf("document version %d: %w", doc.Version, ErrUnsupportedVersion)
	}
	if doc.Width < 0 || doc.Height < 0 {
		return nil, fmt.Errorf("document size %gx%g: %w", doc.Width, doc.Height, object.ErrMalformed)
	}
	if doc.Objects == nil {
		doc.Objects = []object.Record{}
	}
	return &doc, nil
}

func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}
