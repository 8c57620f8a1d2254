package object

// Style is the paint state of a shape. The geometry code never reads it.
type Style struct {
	Fill             string    `json:"fill"`
	FillGradient     *Gradient `json:"fillGradient,omitempty"` // replaces Fill when set
	Stroke           string    `json:"stroke"`
	StrokeWidth      float64   `json:"strokeWidth"`
	StrokeDashArray  []float64 `json:"strokeDashArray"`
	StrokeLineCap    string    `json:"strokeLineCap"`
	StrokeLineJoin   string    `json:"strokeLineJoin"`
	StrokeMiterLimit float64   `json:"strokeMiterLimit"`
	Opacity          float64   `json:"opacity"`
	Shadow           *Shadow   `json:"shadow"`
	Visible          bool      `json:"visible"`
	BackgroundColor  string    `json:"backgroundColor"`
	FillRule         string    `json:"fillRule"`
}

type Shadow struct {
	Color   string  `json:"color"`
	Blur    float64 `json:"blur"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

func DefaultStyle() Style {
	return Style{
		Fill:             "rgb(0,0,0)",
		StrokeWidth:      1,
		StrokeLineCap:    "butt",
		StrokeLineJoin:   "miter",
		StrokeMiterLimit: 10,
		Opacity:          1,
		Visible:          true,
		FillRule:         "nonzero",
	}
}

// Interaction holds the flags an editor consults when the user drags or
// selects a shape.
type Interaction struct {
	Selectable          bool    `json:"selectable"`
	Evented             bool    `json:"evented"`
	HasControls         bool    `json:"hasControls"`
	HasBorders          bool    `json:"hasBorders"`
	HasRotatingPoint    bool    `json:"hasRotatingPoint"`
	CenteredRotation    bool    `json:"centeredRotation"`
	LockMovementX       bool    `json:"lockMovementX"`
	LockMovementY       bool    `json:"lockMovementY"`
	LockRotation        bool    `json:"lockRotation"`
	LockScalingX        bool    `json:"lockScalingX"`
	LockScalingY        bool    `json:"lockScalingY"`
	LockUniScaling      bool    `json:"lockUniScaling"`
	CornerSize          float64 `json:"cornerSize"`
	RotatingPointOffset float64 `json:"rotatingPointOffset"`
}

func DefaultInteraction() Interaction {
	return Interaction{
		Selectable:          true,
		Evented:             true,
		HasControls:         true,
		HasBorders:          true,
		HasRotatingPoint:    true,
		CenteredRotation:    true,
		CornerSize:          12,
		RotatingPointOffset: 40,
	}
}
