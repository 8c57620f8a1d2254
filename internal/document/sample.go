package document

import (
	"github.com/inamate/inamate/canvas-go/internal/geom"
	"github.com/inamate/inamate/canvas-go/internal/object"
)

func styled(fill, stroke string) object.Option {
	return func(o *object.Object) {
		s := object.DefaultStyle()
		s.Fill, s.Stroke, s.StrokeWidth = fill, stroke, 2
		object.WithStyle(s)(o)
	}
}

// NewSampleDocument creates the starter board: a few primitives, a path, a
// rotated group and a gradient title.
func NewSampleDocument(width, height float64) *Document {
	rect := object.NewRect(200, 150, object.WithPosition(200, 200), styled("#e94560", "#000000"))
	rect.SetRadii(12, 12)

	ellipse := object.NewEllipse(120, 80,
		object.WithPosition(640, 360),
		object.WithOrigin(object.OriginCenterX, object.OriginCenterY),
		styled("#0f3460", "#16213e"))

	triangle := object.NewTriangle(200, 150, object.WithPosition(900, 200), styled("#53d769", "#2d6a4f"))

	wave, err := object.NewPath([]object.PathCommand{
		{Op: "M", Args: []float64{0, 40}},
		{Op: "Q", Args: []float64{50, 0, 100, 40}},
		{Op: "T", Args: []float64{200, 40}},
	}, object.WithPosition(80, 560), styled("", "#f5a623"))
	if err != nil {
		panic(err)
	}

	star := object.NewPolygon([]geom.Point{
		{X: 50, Y: 0}, {X: 61, Y: 35}, {X: 98, Y: 35}, {X: 68, Y: 57},
		{X: 79, Y: 91}, {X: 50, Y: 70}, {X: 21, Y: 91}, {X: 32, Y: 57},
		{X: 2, Y: 35}, {X: 39, Y: 35},
	}, object.WithPosition(1100, 500), styled("#ffd166", "#c78400"))

	spinner, err := object.NewGroup([]object.Shape{
		object.NewRect(60, 100, object.WithPosition(470, 400), styled("#f5a623", "#c78400")),
		object.NewCircle(20, object.WithPosition(480, 360), styled("#bd10e0", "#8b0ba8")),
	}, object.WithAngle(30))
	if err != nil {
		panic(err)
	}

	title := object.NewText("Inamate", object.WithPosition(80, 60))
	if err := title.SetFontSize(56); err != nil {
		panic(err)
	}
	title.SetFontWeight("bold")
	title.SetStyle(func() object.Style {
		s := object.DefaultStyle()
		s.FillGradient = object.NewLinearGradient(0, 0, title.Width(), 0).
			AddColorStop(0, "#e94560").
			AddColorStop(1, "#f5a623")
		return s
	}())

	doc := NewEmptyDocument(width, height)
	doc.Background = "#1a1a2e"
	for _, s := range []object.Shape{rect, ellipse, triangle, wave, star, spinner, title} {
		doc.Objects = append(doc.Objects, s.ToObject(object.FieldID))
	}
	return doc
}
