package document

import (
	"errors"
	"testing"

	"github.com/inamate/inamate/canvas-go/internal/object"
)

func TestSampleDocumentDecodes(t *testing.T) {
	doc := NewSampleDocument(1280, 720)
	data, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if back.Width != 1280 || back.Height != 720 || back.Version != Version {
		t.Errorf("header = %+v", back)
	}
	if len(back.Objects) != 7 {
		t.Fatalf("objects = %d, want 7", len(back.Objects))
	}

	seen := map[string]bool{}
	for i, rec := range back.Objects {
		s, err := object.FromObject(rec)
		if err != nil {
			t.Fatalf("object %d: %v", i, err)
		}
		if seen[s.Base().ID()] {
			t.Errorf("duplicate id %s", s.Base().ID())
		}
		seen[s.Base().ID()] = true
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty object", `{}`, nil},
		{"version 1", `{"version":1,"width":10,"height":10,"objects":[]}`, nil},
		{"future version", `{"version":2}`, ErrUnsupportedVersion},
		{"negative size", `{"width":-1}`, object.ErrMalformed},
		{"not json", `{"objects":`, object.ErrMalformed},
		{"objects not a list", `{"objects":{}}`, object.ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse error = %v, want %v", err, tt.want)
			}
			if err == nil && doc.Objects == nil {
				t.Error("Objects should never be nil")
			}
		})
	}
}

func TestNewEmptyDocument(t *testing.T) {
	doc := NewEmptyDocument(800, 600)
	if doc.Version != Version || len(doc.Objects) != 0 || doc.Background == "" {
		t.Errorf("empty document = %+v", doc)
	}
}
