package object

import (
	"encoding/json"
	"fmt"
)

// FromObject builds a shape from its record, dispatching on "type".
// Unknown keys are ignored and absent optional keys take their defaults.
func FromObject(r Record) (Shape, error) {
	rd := &recordReader{r: r}
	rd.require("type")
	var kind string
	rd.str("type", &kind)
	if rd.err != nil {
		return nil, rd.err
	}

	switch Type(kind) {
	case TypeRect:
		return rectFromObject(rd)
	case TypeEllipse:
		return ellipseFromObject(rd)
	case TypeCircle:
		return circleFromObject(rd)
	case TypeLine:
		return lineFromObject(rd)
	case TypeTriangle:
		return triangleFromObject(rd)
	case TypePath:
		return pathFromObject(rd)
	case TypePolygon, TypePolyline:
		return polygonFromObject(rd, Type(kind))
	case TypeGroup:
		return groupFromObject(rd)
	case TypeImage:
		return imageFromObject(rd)
	case TypeText:
		return textFromObject(rd)
	}
	return nil, fmt.Errorf("unknown object type %q: %w", kind, ErrMalformed)
}

// FromJSON decodes a single record.
func FromJSON(data []byte) (Shape, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode object: %v: %w", err, ErrMalformed)
	}
	return FromObject(r)
}

// ToJSON encodes a shape's record.
func ToJSON(s Shape, include ...Field) ([]byte, error) {
	return json.Marshal(s.ToObject(include...))
}

// Patch returns a new shape built from s's full record with the keys of
// patch laid over it. The type and id cannot change. An image keeps its
// loaded bitmap while its src stays the same.
func Patch(s Shape, patch Record) (Shape, error) {
	rec := s.ToObject(AllFields...)
	for k, v := range patch {
		rec[k] = v
	}
	if t, ok := patch["type"]; ok && t != string(s.Type()) {
		return nil, fmt.Errorf("patch %s: type %v: %w", s.Base().ID(), t, ErrMalformed)
	}
	rec["type"] = string(s.Type())
	rec[string(FieldID)] = s.Base().ID()

	out, err := FromObject(rec)
	if err != nil {
		return nil, err
	}
	if old, ok := s.(*Image); ok {
		if im := out.(*Image); im.Src() == old.Src() && old.Element() != nil {
			im.element = old.element
		}
	}
	return out, nil
}
