package object

import (
	"encoding/json"
	"fmt"
)

// Record is the plain-data form of a shape. Values are limited to what
// encoding/json produces when decoding into any: float64, string, bool,
// nil, []any and map[string]any.
type Record map[string]any

// Field names an optional property that ToObject only emits on request.
type Field string

const (
	FieldID                  Field = "id"
	FieldSelectable          Field = "selectable"
	FieldEvented             Field = "evented"
	FieldHasControls         Field = "hasControls"
	FieldHasBorders          Field = "hasBorders"
	FieldHasRotatingPoint    Field = "hasRotatingPoint"
	FieldCenteredRotation    Field = "centeredRotation"
	FieldLockMovementX       Field = "lockMovementX"
	FieldLockMovementY       Field = "lockMovementY"
	FieldLockRotation        Field = "lockRotation"
	FieldLockScalingX        Field = "lockScalingX"
	FieldLockScalingY        Field = "lockScalingY"
	FieldLockUniScaling      Field = "lockUniScaling"
	FieldCornerSize          Field = "cornerSize"
	FieldRotatingPointOffset Field = "rotatingPointOffset"
)

var AllFields = []Field{
	FieldID, FieldSelectable, FieldEvented, FieldHasControls, FieldHasBorders,
	FieldHasRotatingPoint, FieldCenteredRotation, FieldLockMovementX, FieldLockMovementY,
	FieldLockRotation, FieldLockScalingX, FieldLockScalingY, FieldLockUniScaling,
	FieldCornerSize, FieldRotatingPointOffset,
}

// interactionFields binds each optional field to its storage.
func interactionFields(in *Interaction) map[Field]any {
	return map[Field]any{
		FieldSelectable:          &in.Selectable,
		FieldEvented:             &in.Evented,
		FieldHasControls:         &in.HasControls,
		FieldHasBorders:          &in.HasBorders,
		FieldHasRotatingPoint:    &in.HasRotatingPoint,
		FieldCenteredRotation:    &in.CenteredRotation,
		FieldLockMovementX:       &in.LockMovementX,
		FieldLockMovementY:       &in.LockMovementY,
		FieldLockRotation:        &in.LockRotation,
		FieldLockScalingX:        &in.LockScalingX,
		FieldLockScalingY:        &in.LockScalingY,
		FieldLockUniScaling:      &in.LockUniScaling,
		FieldCornerSize:          &in.CornerSize,
		FieldRotatingPointOffset: &in.RotatingPointOffset,
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func floatsToRecord(fs []float64) any {
	if fs == nil {
		return nil
	}
	out := make([]any, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

// baseRecord emits the properties every variant shares.
func (o *Object) baseRecord(include []Field) Record {
	t, s := o.t, o.style
	r := Record{
		"type":             string(o.kind),
		"originX":          string(t.OriginX),
		"originY":          string(t.OriginY),
		"left":             t.Left,
		"top":              t.Top,
		"width":            t.Width,
		"height":           t.Height,
		"scaleX":           t.ScaleX,
		"scaleY":           t.ScaleY,
		"angle":            t.Angle,
		"flipX":            t.FlipX,
		"flipY":            t.FlipY,
		"fill":             nullable(s.Fill),
		"stroke":           nullable(s.Stroke),
		"strokeWidth":      s.StrokeWidth,
		"strokeDashArray":  floatsToRecord(s.StrokeDashArray),
		"strokeLineCap":    s.StrokeLineCap,
		"strokeLineJoin":   s.StrokeLineJoin,
		"strokeMiterLimit": s.StrokeMiterLimit,
		"opacity":          s.Opacity,
		"shadow":           nil,
		"visible":          s.Visible,
		"backgroundColor":  s.BackgroundColor,
		"fillRule":         s.FillRule,
	}
	if s.FillGradient != nil {
		r["fill"] = s.FillGradient.record()
	}
	if s.Shadow != nil {
		r["shadow"] = map[string]any{
			"color":   s.Shadow.Color,
			"blur":    s.Shadow.Blur,
			"offsetX": s.Shadow.OffsetX,
			"offsetY": s.Shadow.OffsetY,
		}
	}

	in := o.inter
	fields := interactionFields(&in)
	for _, f := range include {
		if f == FieldID {
			r[string(f)] = o.id
			continue
		}
		switch p := fields[f].(type) {
		case *bool:
			r[string(f)] = *p
		case *float64:
			r[string(f)] = *p
		}
	}
	return r
}

// decodeBase reads the shared properties. Absent keys keep their current
// values.
func (o *Object) decodeBase(rd *recordReader) {
	t, s := &o.t, &o.style

	var ox, oy string
	rd.str("originX", &ox)
	rd.str("originY", &oy)
	if ox != "" {
		t.OriginX = OriginX(ox)
		if !t.OriginX.Valid() {
			rd.fail("originX", fmt.Errorf("%q: %w", ox, ErrInvalidOrigin))
		}
	}
	if oy != "" {
		t.OriginY = OriginY(oy)
		if !t.OriginY.Valid() {
			rd.fail("originY", fmt.Errorf("%q: %w", oy, ErrInvalidOrigin))
		}
	}

	rd.float("left", &t.Left)
	rd.float("top", &t.Top)
	rd.float("width", &t.Width)
	rd.float("height", &t.Height)
	rd.float("scaleX", &t.ScaleX)
	rd.float("scaleY", &t.ScaleY)
	rd.float("angle", &t.Angle)
	rd.boolean("flipX", &t.FlipX)
	rd.boolean("flipY", &t.FlipY)

	if v, ok := rd.lookup("fill"); ok {
		switch v.(type) {
		case map[string]any, Record:
			sub, _ := rd.object("fill")
			g, err := gradientFromRecord(sub, "fill.")
			if err != nil {
				rd.err = err
				break
			}
			s.Fill, s.FillGradient = "", g
		default:
			rd.str("fill", &s.Fill)
			s.FillGradient = nil
		}
	} else if _, present := rd.r["fill"]; present {
		rd.str("fill", &s.Fill)
		s.FillGradient = nil
	}
	rd.str("stroke", &s.Stroke)
	rd.float("strokeWidth", &s.StrokeWidth)
	rd.floats("strokeDashArray", &s.StrokeDashArray)
	rd.str("strokeLineCap", &s.StrokeLineCap)
	rd.str("strokeLineJoin", &s.StrokeLineJoin)
	rd.float("strokeMiterLimit", &s.StrokeMiterLimit)
	rd.float("opacity", &s.Opacity)
	rd.boolean("visible", &s.Visible)
	rd.str("backgroundColor", &s.BackgroundColor)
	rd.str("fillRule", &s.FillRule)
	if sub, ok := rd.object("shadow"); ok {
		sh := &Shadow{}
		srd := &recordReader{r: sub, prefix: "shadow."}
		srd.str("color", &sh.Color)
		srd.float("blur", &sh.Blur)
		srd.float("offsetX", &sh.OffsetX)
		srd.float("offsetY", &sh.OffsetY)
		rd.merge(srd)
		s.Shadow = sh
	}

	rd.str(string(FieldID), &o.id)
	for f, p := range interactionFields(&o.inter) {
		switch p := p.(type) {
		case *bool:
			rd.boolean(string(f), p)
		case *float64:
			rd.float(string(f), p)
		}
	}
}

// recordReader decodes typed values from a Record and keeps the first
// error.
type recordReader struct {
	r      Record
	prefix string
	err    error
}

func (rd *recordReader) fail(key string, err error) {
	if rd.err == nil {
		rd.err = fmt.Errorf("field %s%s: %w", rd.prefix, key, err)
	}
}

func (rd *recordReader) merge(other *recordReader) {
	if rd.err == nil {
		rd.err = other.err
	}
}

// lookup returns the value for key, treating null as absent.
func (rd *recordReader) lookup(key string) (any, bool) {
	if rd.err != nil {
		return nil, false
	}
	v, ok := rd.r[key]
	return v, ok && v != nil
}

func (rd *recordReader) require(keys ...string) {
	for _, k := range keys {
		if _, ok := rd.lookup(k); !ok && rd.err == nil {
			rd.fail(k, fmt.Errorf("missing: %w", ErrMalformed))
		}
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func (rd *recordReader) float(key string, dst *float64) {
	v, ok := rd.lookup(key)
	if !ok {
		return
	}
	f, ok := toFloat(v)
	if !ok {
		rd.fail(key, fmt.Errorf("want number, got %T: %w", v, ErrMalformed))
		return
	}
	*dst = f
}

// str reads a string. An explicit null clears dst.
func (rd *recordReader) str(key string, dst *string) {
	if rd.err != nil {
		return
	}
	v, present := rd.r[key]
	if !present {
		return
	}
	if v == nil {
		*dst = ""
		return
	}
	s, ok := v.(string)
	if !ok {
		rd.fail(key, fmt.Errorf("want string, got %T: %w", v, ErrMalformed))
		return
	}
	*dst = s
}

func (rd *recordReader) boolean(key string, dst *bool) {
	v, ok := rd.lookup(key)
	if !ok {
		return
	}
	b, ok := v.(bool)
	if !ok {
		rd.fail(key, fmt.Errorf("want bool, got %T: %w", v, ErrMalformed))
		return
	}
	*dst = b
}

func (rd *recordReader) list(key string) ([]any, bool) {
	v, ok := rd.lookup(key)
	if !ok {
		return nil, false
	}
	l, ok := v.([]any)
	if !ok {
		rd.fail(key, fmt.Errorf("want array, got %T: %w", v, ErrMalformed))
		return nil, false
	}
	return l, true
}

func (rd *recordReader) object(key string) (Record, bool) {
	v, ok := rd.lookup(key)
	if !ok {
		return nil, false
	}
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	}
	rd.fail(key, fmt.Errorf("want object, got %T: %w", v, ErrMalformed))
	return nil, false
}

func (rd *recordReader) floats(key string, dst *[]float64) {
	l, ok := rd.list(key)
	if !ok {
		return
	}
	out := make([]float64, len(l))
	for i, v := range l {
		f, ok := toFloat(v)
		if !ok {
			rd.fail(key, fmt.Errorf("element %d: want number, got %T: %w", i, v, ErrMalformed))
			return
		}
		out[i] = f
	}
	*dst = out
}
