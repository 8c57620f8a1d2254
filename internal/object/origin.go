package object

import "fmt"

// OriginX is the horizontal reference point of a shape's box.
type OriginX string

const (
	OriginLeft    OriginX = "left"
	OriginCenterX OriginX = "center"
	OriginRight   OriginX = "right"
)

// OriginY is the vertical reference point of a shape's box.
type OriginY string

const (
	OriginTop     OriginY = "top"
	OriginCenterY OriginY = "center"
	OriginBottom  OriginY = "bottom"
)

func (o OriginX) Valid() bool {
	return o == OriginLeft || o == OriginCenterX || o == OriginRight
}

func (o OriginY) Valid() bool {
	return o == OriginTop || o == OriginCenterY || o == OriginBottom
}

// offset is the origin's distance from the center as a fraction of the width.
func (o OriginX) offset() float64 {
	switch o {
	case OriginLeft:
		return -0.5
	case OriginRight:
		return 0.5
	default:
		return 0
	}
}

func (o OriginY) offset() float64 {
	switch o {
	case OriginTop:
		return -0.5
	case OriginBottom:
		return 0.5
	default:
		return 0
	}
}

func ParseOriginX(s string) (OriginX, error) {
	o := OriginX(s)
	if !o.Valid() {
		return "", fmt.Errorf("originX %q: %w", s, ErrInvalidOrigin)
	}
	return o, nil
}

func ParseOriginY(s string) (OriginY, error) {
	o := OriginY(s)
	if !o.Valid() {
		return "", fmt.Errorf("originY %q: %w", s, ErrInvalidOrigin)
	}
	return o, nil
}
